// Package replay implements the anti-replay counter comparison rules: a
// service ACF may be re-presented within its validity window, while every
// other ACF type is single-shot.
package replay

import (
	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginrc"
)

// Validate compares an ACF's replay id (if present) against the persisted
// value and returns the value the caller should now persist. When present
// is false, updated equals persisted and no policy is applied -- an ACF
// that never carried a replay id is exempt from replay checking entirely.
func Validate(acfType celogin.AcfType, present bool, persisted, acfId uint64) (updated uint64, code celoginrc.Code) {
	if !present {
		return persisted, celoginrc.Success
	}
	if acfType == celogin.AcfTypeService {
		if acfId >= persisted {
			return acfId, celoginrc.Success
		}
		return persisted, celoginrc.InvalidReplayId
	}
	if acfId > persisted {
		return acfId, celoginrc.Success
	}
	return persisted, celoginrc.InvalidReplayId
}

// ValidateExact implements the authenticate-path rule: when a replay id is
// present, it must equal the persisted value exactly. A mismatch means the
// upload-time persistence never landed.
func ValidateExact(present bool, persisted, acfId uint64) celoginrc.Code {
	if !present {
		return celoginrc.Success
	}
	if acfId != persisted {
		return celoginrc.ReplayIdPersistenceFailure
	}
	return celoginrc.Success
}

// ValidatePowerVM implements the virtualization-host variant: when
// failIfPresent is set, any replay id on the wire is a hard failure;
// otherwise it falls back to the full Validate rule.
func ValidatePowerVM(acfType celogin.AcfType, present bool, persisted, acfId uint64, failIfPresent bool) (updated uint64, code celoginrc.Code) {
	if present && failIfPresent {
		return persisted, celoginrc.PowerVMRequestedReplayFailure
	}
	return Validate(acfType, present, persisted, acfId)
}
