// Package pamacf implements the PAM-style authentication adapter: a single
// hard-coded service account that is authorized by presenting an ACF and
// password instead of a long-lived credential.
package pamacf

import (
	"time"

	"go.uber.org/zap"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginauth"
	"github.com/openbmc-project/celogin/celoginrc"
)

// ServiceUser is the only account this adapter ever authorizes. Every other
// username is ignored, matching the original module's ignore_other_accounts.
const ServiceUser = "service"

// MinFailDelay is the minimum delay imposed after a failed authentication
// attempt, regardless of how quickly all trusted keys were exhausted.
const MinFailDelay = 2 * time.Second

// KeySlot names one of the trusted public key files tried in order.
type KeySlot int

const (
	KeyProduction KeySlot = iota
	KeyProductionBackup
	KeyDevelopment
)

// FieldMode reports whether the device is deployed in the field (only
// production keys trusted) or in development (the development key is
// additionally trusted).
type FieldMode int

const (
	FieldModeEnabled FieldMode = iota
	FieldModeDisabled
	FieldModeUnreadable
)

// Verdict is the adapter's terminal decision, independent of any specific
// PAM library's return-code constants.
type Verdict int

const (
	VerdictIgnore Verdict = iota
	VerdictSuccess
	VerdictDeny
	VerdictSystemError
)

// Collaborator supplies the I/O the adapter needs: reading the ACF and
// trusted keys, the device serial number, field mode, the persisted replay
// id, and the fail-delay hook.
type Collaborator interface {
	ReadAcf() ([]byte, error)
	ReadPublicKey(slot KeySlot) ([]byte, error)
	ReadSerialNumber() (string, error)
	ReadFieldMode() FieldMode
	RetrieveReplayId() (uint64, error)
	FailDelay(d time.Duration)
}

// Adapter ties a Collaborator to a clock and logger.
type Adapter struct {
	Collaborator Collaborator
	Logger       *zap.SugaredLogger
	Now          func() time.Time
}

// New constructs an Adapter. A nil logger defaults to a no-op logger; Now
// defaults to time.Now.
func New(c Collaborator, logger *zap.SugaredLogger) *Adapter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Adapter{Collaborator: c, Logger: logger, Now: time.Now}
}

// trialOrder returns the trusted key slots to try, in order, given the
// device's field mode. The development key is tried only when the device
// is not known to be in the field.
func trialOrder(mode FieldMode) []KeySlot {
	order := []KeySlot{KeyProduction, KeyProductionBackup}
	if mode != FieldModeEnabled {
		order = append(order, KeyDevelopment)
	}
	return order
}

// Authenticate implements pam_sm_authenticate: it ignores any user other
// than ServiceUser, resolves the normalized serial number, and tries each
// trusted key in order until one authorizes the ACF or all are exhausted.
// A fail delay of at least MinFailDelay is always applied before returning
// a denial.
func (a *Adapter) Authenticate(user string, password []byte) (Verdict, celoginrc.Code) {
	if user != ServiceUser {
		return VerdictIgnore, celoginrc.Success
	}

	acf, err := a.Collaborator.ReadAcf()
	if err != nil {
		a.Logger.Errorw("failed to read acf", "error", err)
		return VerdictSystemError, celoginrc.Failure
	}

	rawSerial, err := a.Collaborator.ReadSerialNumber()
	if err != nil {
		a.Logger.Warnw("failed to read serial number, treating as blank", "error", err)
		rawSerial = ""
	}
	serial := celogin.NormalizeSerial(rawSerial)

	fieldMode := a.Collaborator.ReadFieldMode()
	if fieldMode == FieldModeUnreadable {
		a.Logger.Errorw("field mode is unreadable")
		return VerdictSystemError, celoginrc.Failure
	}

	persisted, err := a.Collaborator.RetrieveReplayId()
	if err != nil {
		a.Logger.Errorw("failed to retrieve persisted replay id", "error", err)
		return VerdictSystemError, celoginrc.Failure
	}

	now := a.Now().Unix()
	lastCode := celoginrc.Failure
	for _, slot := range trialOrder(fieldMode) {
		pub, err := a.Collaborator.ReadPublicKey(slot)
		if err != nil {
			a.Logger.Debugw("failed to read trusted key", "slot", slot, "error", err)
			lastCode = celoginrc.Failure
			continue
		}
		_, code := celoginauth.CheckAuthorizationAndGetAcfUserFields(acf, pub, serial, now, password, persisted)
		if code == celoginrc.Success {
			return VerdictSuccess, celoginrc.Success
		}
		lastCode = code
	}

	a.Collaborator.FailDelay(MinFailDelay)
	a.Logger.Infow("authentication denied", "reason", celoginrc.String(lastCode))
	return VerdictDeny, lastCode
}

// AccountManagement implements pam_sm_acct_mgmt: the service user's account
// management request is allowed to pass through (it has no real account
// state to manage); every other user is denied outright rather than
// ignored, since account management is never delegated to another module
// for this adapter's scope.
func (a *Adapter) AccountManagement(user string) Verdict {
	if user == ServiceUser {
		return VerdictSuccess
	}
	return VerdictDeny
}

// ChangeAuthToken implements pam_sm_chauthtok: the service account is a
// capability-granting pseudo-account with no password to change, so a
// change request against it is rejected; other users are ignored so
// another module can handle the request.
func (a *Adapter) ChangeAuthToken(user string) Verdict {
	if user == ServiceUser {
		return VerdictDeny
	}
	return VerdictIgnore
}
