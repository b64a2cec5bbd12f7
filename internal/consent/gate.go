package consent

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauern/hookgate/internal/constants"
	"github.com/klauern/hookgate/internal/plugins"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// WarningMessage is logged when external plugins are found and consent was never recorded.
const WarningMessage = "Plugin(s) detected. The risk associated with installing plugins has not been accepted. The administrator needs to log in and accept the risk."

// ErrConsentRequired is returned when an external plugin is loaded without accepted consent.
var ErrConsentRequired = errors.New("external plugin risk has not been accepted")

// PropertyStore persists global key/value settings.
type PropertyStore interface {
	GetGlobalProperty(ctx context.Context, key string) (string, bool, error)
	SetGlobalProperty(ctx context.Context, key, value string) error
	DeleteGlobalProperty(ctx context.Context, key string) error
}

// Action is the store mutation a decision calls for.
type Action int

const (
	// Keep leaves the property untouched.
	Keep Action = iota
	// Set writes the decision's Next value.
	Set
	// Delete removes the property.
	Delete
)

// Decision is the outcome of the reconciliation rule.
type Decision struct {
	Next   State
	Action Action
	Warn   bool
}

// Decide applies the reconciliation rule. Consent is only escalated to
// REQUIRED while external plugins exist and only retracted, by deleting the
// property, once none remain and the stored value is REQUIRED. ACCEPTED is
// never changed here.
func Decide(hasExternal bool, current State) Decision {
	if hasExternal {
		switch {
		case !current.Present:
			return Decision{Next: Stored(Required), Action: Set, Warn: true}
		case current.Value == NotAccepted:
			return Decision{Next: Stored(Required), Action: Set}
		}
		return Decision{Next: current, Action: Keep}
	}
	if current.Is(Required) {
		return Decision{Next: Absent, Action: Delete}
	}
	return Decision{Next: current, Action: Keep}
}

// Result reports what a reconciliation did.
type Result struct {
	Previous State
	Current  State
	Action   Action
	Warned   bool
	// External lists the external plugins seen.
	External []plugins.Record
}

// Gate reconciles the stored consent with the installed plugins. It holds no
// state of its own between calls.
type Gate struct {
	inventory plugins.Inventory
	store     PropertyStore
	loggers   ldlog.Loggers
	key       string
}

// NewGate creates a gate over the given collaborators
func NewGate(inventory plugins.Inventory, store PropertyStore, loggers ldlog.Loggers) *Gate {
	return &Gate{
		inventory: inventory,
		store:     store,
		loggers:   loggers,
		key:       constants.PluginsRiskConsent,
	}
}

// Reconcile samples the inventory once, reads the stored consent and writes
// back REQUIRED, deletes the property, or does nothing. Collaborator errors
// are returned unchanged in meaning so startup can fail.
func (g *Gate) Reconcile(ctx context.Context) (Result, error) {
	records, err := g.inventory.Plugins(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read plugin inventory: %w", err)
	}
	var external []plugins.Record
	for _, r := range records {
		if r.Type == plugins.External {
			external = append(external, r)
		}
	}

	current, err := g.State(ctx)
	if err != nil {
		return Result{}, err
	}

	d := Decide(len(external) > 0, current)
	switch d.Action {
	case Set:
		if err := g.store.SetGlobalProperty(ctx, g.key, d.Next.Value.String()); err != nil {
			return Result{}, fmt.Errorf("failed to write %s: %w", g.key, err)
		}
	case Delete:
		if err := g.store.DeleteGlobalProperty(ctx, g.key); err != nil {
			return Result{}, fmt.Errorf("failed to delete %s: %w", g.key, err)
		}
	}
	if d.Warn {
		g.loggers.Warn(WarningMessage)
	}
	g.loggers.Debugf("Plugin consent reconciled: %s -> %s (%d external plugin(s))", current, d.Next, len(external))

	return Result{
		Previous: current,
		Current:  d.Next,
		Action:   d.Action,
		Warned:   d.Warn,
		External: external,
	}, nil
}

// State reads the stored consent. An unrecognized value is reported as absent
// so that external plugins found later still require consent.
func (g *Gate) State(ctx context.Context) (State, error) {
	raw, ok, err := g.store.GetGlobalProperty(ctx, g.key)
	if err != nil {
		return State{}, fmt.Errorf("failed to read %s: %w", g.key, err)
	}
	if !ok {
		return Absent, nil
	}
	v, known := ParseValue(raw)
	if !known {
		g.loggers.Debugf("Ignoring unrecognized %s value %q", g.key, raw)
		return Absent, nil
	}
	return Stored(v), nil
}

// Accept records the administrator's acknowledgement of the risk.
func (g *Gate) Accept(ctx context.Context) error {
	return g.record(ctx, Accepted)
}

// Decline records that consent was asked for and not given.
func (g *Gate) Decline(ctx context.Context) error {
	return g.record(ctx, NotAccepted)
}

func (g *Gate) record(ctx context.Context, v Value) error {
	if err := g.store.SetGlobalProperty(ctx, g.key, v.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.key, err)
	}
	g.loggers.Infof("Plugin risk consent set to %s", v)
	return nil
}

// Authorize decides whether a plugin may be loaded. Bundled plugins always
// may; external ones only once consent is ACCEPTED.
func (g *Gate) Authorize(ctx context.Context, rec plugins.Record) error {
	if rec.Type != plugins.External {
		return nil
	}
	state, err := g.State(ctx)
	if err != nil {
		return err
	}
	if !state.Is(Accepted) {
		return fmt.Errorf("plugin '%s' (consent %s): %w", rec.Name, state, ErrConsentRequired)
	}
	return nil
}
