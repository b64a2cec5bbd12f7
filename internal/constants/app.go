package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName        = "hookgate"
	BinaryName     = "hookgate"
	ProjectTagline = "Nothing external runs until someone says so"

	// Module and repository
	ModulePath    = "github.com/klauern/hookgate"
	RepositoryURL = "https://github.com/klauern/hookgate"

	// Configuration files
	ConfigDirName        = "hookgate"
	ConfigFileBase       = "config"
	PropertiesFileBase   = "properties"
	CustomPluginsFile    = "plugins.yml"
	PluginsSubDir        = "plugins"
	EnvFileName          = ".env"
	DefaultConfigFormat  = "json"
	DefaultLogFile       = "hookgate.log"
	RedisPropertiesHash  = "hookgate:properties"
	SQLPropertiesTable   = "properties"
	EnvPrefix            = "HOOKGATE_"
	EnvStoreDriver       = EnvPrefix + "STORE_DRIVER"
	EnvStoreDSN          = EnvPrefix + "STORE_DSN"
	EnvLogLevel          = EnvPrefix + "LOG_LEVEL"
	EnvPluginsDir        = EnvPrefix + "PLUGINS_DIR"
	EnvConfigHome        = "XDG_CONFIG_HOME"
	DefaultPropertyStore = "file"

	// PluginsRiskConsent is the global property recording the administrator's
	// acknowledgement of the risk of running external plugins.
	PluginsRiskConsent = "plugins.risk.consent"
)
