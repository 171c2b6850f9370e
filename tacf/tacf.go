// Package tacf implements the targeted ACF orchestrator: the top-level
// state machine that reads the persisted replay id, authorizes the ACF,
// dispatches the type-specific action, and persists or rolls back the
// replay counter depending on the outcome.
package tacf

import (
	"go.uber.org/zap"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/metrics"
)

// Action selects what TargetedAuth does once the ACF is authorized.
type Action int

const (
	ActionInvalid Action = iota
	ActionInstall
	ActionAuthenticate
	ActionVerify
)

// State names the orchestrator's current step, exposed for logging and
// metrics labeling.
type State string

const (
	StateIdle         State = "idle"
	StateReadReplay   State = "read_replay"
	StateGetAuth      State = "get_auth"
	StateAct          State = "act"
	StatePersistReplay State = "persist_replay"
	StateRollback     State = "rollback"
	StateDone         State = "done"
)

// Collaborator is the capability set the orchestrator needs from its
// caller. Implementations must not be baked into the core: production
// wiring lives in dbusserial and replaystore, test wiring is a fake.
type Collaborator interface {
	// GetAuth runs the authorization pipeline (celoginauth) against the
	// currently loaded ACF and returns the extracted fields plus the
	// replay id the caller should persist on success. action selects
	// which celoginauth entry point to use -- ActionInstall wants full
	// replay validation (a fresh, larger replay id is expected and
	// accepted), ActionAuthenticate wants an exact replay match, and
	// ActionVerify wants no password and no replay check at all -- so
	// implementations must not hard-code a single celoginauth call here.
	GetAuth(action Action, password []byte) (celogin.AcfUserFields, uint64, celoginrc.Code)

	RetrieveReplayId() (uint64, error)
	StoreReplayId(uint64) error

	ResetAdmin(authCode []byte) error
	RemoveAcf() error
	InstallAcf(acfType celogin.AcfType, fields celogin.AcfUserFields) error
}

// Orchestrator runs TargetedAuth with a fixed Collaborator, logger, and
// metrics scope.
type Orchestrator struct {
	Collaborator Collaborator
	Logger       *zap.SugaredLogger
	Scope        metrics.Scope
}

// New constructs an Orchestrator. A nil logger or scope is replaced with a
// no-op implementation.
func New(c Collaborator, logger *zap.SugaredLogger, scope metrics.Scope) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if scope == nil {
		scope = metrics.NewNoopScope()
	}
	return &Orchestrator{Collaborator: c, Logger: logger, Scope: scope}
}

// TargetedAuth runs the Idle -> ReadReplay -> GetAuth -> Act ->
// PersistReplay|Rollback -> Done state machine described in the
// orchestrator's package doc.
func (o *Orchestrator) TargetedAuth(action Action, password []byte) (fields celogin.AcfUserFields, code celoginrc.Code) {
	state := StateIdle
	defer func() {
		o.Scope.Inc("tacf.final_state."+string(state), 1)
		o.Scope.CountCode("tacf.result", code)
	}()

	state = StateReadReplay
	originalReplay, err := o.Collaborator.RetrieveReplayId()
	if err != nil {
		o.Logger.Errorw("failed to retrieve persisted replay id", "error", err)
		state = StateDone
		return celogin.AcfUserFields{}, celoginrc.Failure
	}

	state = StateGetAuth
	fields, updatedReplay, code := o.Collaborator.GetAuth(action, password)
	if code != celoginrc.Success {
		o.Logger.Infow("authorization denied", "reason", celoginrc.String(code))
		state = StateDone
		return celogin.AcfUserFields{}, code
	}

	if action != ActionInstall {
		state = StateDone
		return fields, celoginrc.Success
	}

	state = StateAct
	if updatedReplay != originalReplay {
		state = StatePersistReplay
		if err := o.Collaborator.StoreReplayId(updatedReplay); err != nil {
			o.Logger.Errorw("failed to persist replay id", "error", err)
			state = StateDone
			return celogin.AcfUserFields{}, celoginrc.Failure
		}
		state = StateAct
	}

	if dispatchCode := o.dispatch(fields); dispatchCode != celoginrc.Success {
		state = StateRollback
		if err := o.Collaborator.StoreReplayId(originalReplay); err != nil {
			// Best-effort: the original replay id could not be restored.
			// The dispatch failure below is still the one reported.
			o.Logger.Warnw("replay id rollback failed", "error", err)
		}
		state = StateDone
		return celogin.AcfUserFields{}, dispatchCode
	}

	state = StateDone
	return fields, celoginrc.Success
}

// dispatch performs the type-specific install action: administrative ACFs
// reset the admin account and then remove themselves; every other type
// installs.
func (o *Orchestrator) dispatch(fields celogin.AcfUserFields) celoginrc.Code {
	switch fields.Type {
	case celogin.AcfTypeAdminReset:
		if err := o.Collaborator.ResetAdmin(fields.AdminReset.AuthCode); err != nil {
			o.Logger.Errorw("admin reset failed", "error", err)
			return celoginrc.Failure
		}
		if err := o.Collaborator.RemoveAcf(); err != nil {
			o.Logger.Errorw("acf removal failed", "error", err)
			return celoginrc.Failure
		}
		return celoginrc.Success
	case celogin.AcfTypeService, celogin.AcfTypeResourceDump, celogin.AcfTypeBmcShell:
		if err := o.Collaborator.InstallAcf(fields.Type, fields); err != nil {
			o.Logger.Errorw("acf install failed", "error", err)
			return celoginrc.Failure
		}
		return celoginrc.Success
	default:
		return celoginrc.UnsupportedAcfType
	}
}
