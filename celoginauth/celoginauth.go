// Package celoginauth implements the authorization and payload-extraction
// operations built on top of celoginvalidate: password verification for
// service ACFs, type-specific field extraction, and the three replay-policy
// call boundaries (BMC upload, authenticate, PowerVM).
package celoginauth

import (
	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginjson"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/celoginutil"
	"github.com/openbmc-project/celogin/celoginvalidate"
	"github.com/openbmc-project/celogin/replay"
)

// extractUserFields performs the shared post-validation work: password
// check for service ACFs, per-type field copy with bounds enforcement, and
// Framework EC to authority resolution. expirationUnix is the validated
// expiration boundary, copied into the result's ExpirationTimeUnix.
func extractUserFields(payload celoginjson.Payload, expirationUnix int64, password []byte) (celogin.AcfUserFields, celoginrc.Code) {
	fields := celogin.AcfUserFields{
		Version:            payload.Version,
		Type:               payload.Type,
		ExpirationTimeUnix: expirationUnix,
		ReplayIdPresent:    payload.ReplayIdPresent,
		ReplayId:           payload.ReplayId,
	}

	switch payload.Type {
	case celogin.AcfTypeService:
		if len(password) == 0 {
			return celogin.AcfUserFields{}, celoginrc.PasswordNotValid
		}
		derived, code := celoginutil.CreatePasswordHash(password, payload.Salt, payload.Iterations, len(payload.HashedAuthCode))
		if code != celoginrc.Success {
			return celogin.AcfUserFields{}, code
		}
		if !celoginutil.ConstantTimeCompare(derived, payload.HashedAuthCode) {
			return celogin.AcfUserFields{}, celoginrc.PasswordNotValid
		}
		authority, ok := celogin.AuthorityFromFrameworkEc(payload.FrameworkEc)
		if !ok {
			return celogin.AcfUserFields{}, celoginrc.GetAuthFromFrameworkEcUnknownString
		}
		fields.Service = &celogin.ServiceFields{Authority: authority}

	case celogin.AcfTypeAdminReset:
		authCode, code := celoginutil.HexToBin(payload.AdminAuthCodeHex)
		if code != celoginrc.Success {
			return celogin.AcfUserFields{}, code
		}
		if len(authCode) == 0 || len(authCode) > celogin.AdminAuthCodeMaxLen {
			return celogin.AcfUserFields{}, celoginrc.DecodeHsfReadAdminAuthCodeFailure
		}
		fields.AdminReset = &celogin.AdminResetFields{AuthCode: authCode}

	case celogin.AcfTypeResourceDump:
		script := []byte(payload.AsciiScriptFile)
		if len(script) == 0 || len(script) > celogin.MaxAsciiScriptFileLength {
			return celogin.AcfUserFields{}, celoginrc.DecodeHsfReadAsciiScriptFileFailure
		}
		fields.ResourceDump = &celogin.ResourceDumpFields{AsciiScriptFile: script}

	case celogin.AcfTypeBmcShell:
		script := []byte(payload.AsciiScriptFile)
		if len(script) == 0 || len(script) > celogin.MaxAsciiScriptFileLength {
			return celogin.AcfUserFields{}, celoginrc.DecodeHsfReadAsciiScriptFileFailure
		}
		fields.BmcShell = &celogin.BmcShellFields{
			AsciiScriptFile: script,
			BmcTimeout:      payload.BmcTimeout,
			IssueBmcDump:    payload.IssueBmcDump,
		}

	default:
		return celogin.AcfUserFields{}, celoginrc.UnsupportedAcfType
	}

	return fields, celoginrc.Success
}

// CheckAuthorizationAndGetAcfUserFields is the authenticate-path entry
// point: full validation, password check, field extraction, and an exact
// replay-id equality check against persistedReplayId.
func CheckAuthorizationAndGetAcfUserFields(
	acfDER, publicKeyDER []byte,
	deviceSerial string,
	nowUnix int64,
	password []byte,
	persistedReplayId uint64,
) (celogin.AcfUserFields, celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, code
	}

	fields, code := extractUserFields(result.Payload, result.ExpirationBoundaryUnix, password)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, code
	}

	if code := replay.ValidateExact(result.Payload.ReplayIdPresent, persistedReplayId, result.Payload.ReplayId); code != celoginrc.Success {
		return celogin.AcfUserFields{}, code
	}

	return fields, celoginrc.Success
}

// ExtractACFMetadata runs validation (including signature verification) but
// requires no password and does not touch replay state. Intended for
// "describe this ACF" UI flows.
func ExtractACFMetadata(acfDER, publicKeyDER []byte, deviceSerial string, nowUnix int64) (celogin.AcfMetadata, celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return celogin.AcfMetadata{}, code
	}
	return celogin.AcfMetadata{
		Version:        result.Payload.Version,
		Type:           result.Payload.Type,
		ExpirationTime: celogin.AcfUserFields{ExpirationTimeUnix: result.ExpirationBoundaryUnix}.ExpirationTime(),
		HasReplayId:    result.Payload.ReplayIdPresent,
	}, celoginrc.Success
}

// VerifyACFForBMCUpload validates the ACF and applies the full replay
// policy, returning the value the caller must now persist. It never checks
// a password; it is used only at the upload boundary, where the ACF is
// staged to disk for later authentication and no field extraction happens
// yet.
func VerifyACFForBMCUpload(acfDER, publicKeyDER []byte, deviceSerial string, nowUnix int64, persistedReplayId uint64) (updated uint64, code celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return persistedReplayId, code
	}
	if result.Payload.Version != celogin.AcfVersion2 {
		return persistedReplayId, celoginrc.UnsupportedVersion
	}
	return replay.Validate(result.Payload.Type, result.Payload.ReplayIdPresent, persistedReplayId, result.Payload.ReplayId)
}

// InstallACFAndGetUserFields is the targeted-install boundary: unlike
// VerifyACFForBMCUpload, the caller is about to act on the ACF immediately
// (reset the admin account, install a resource-dump script, ...) rather
// than just stage it, so this also runs password verification and field
// extraction, in addition to the same full (non-exact) replay policy.
func InstallACFAndGetUserFields(
	acfDER, publicKeyDER []byte,
	deviceSerial string,
	nowUnix int64,
	password []byte,
	persistedReplayId uint64,
) (celogin.AcfUserFields, uint64, celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	fields, code := extractUserFields(result.Payload, result.ExpirationBoundaryUnix, password)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	updated, code := replay.Validate(result.Payload.Type, result.Payload.ReplayIdPresent, persistedReplayId, result.Payload.ReplayId)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	return fields, updated, celoginrc.Success
}

// CheckAuthorizationForPowerVM is the virtualization-host variant of the
// authenticate path: when failValidationIfReplayIdPresent is set, any
// replay id on the wire is rejected outright; otherwise the full (not
// exact-equality) replay rule is applied and the updated value returned for
// the caller to persist.
func CheckAuthorizationForPowerVM(
	acfDER, publicKeyDER []byte,
	deviceSerial string,
	nowUnix int64,
	password []byte,
	persistedReplayId uint64,
	failValidationIfReplayIdPresent bool,
) (celogin.AcfUserFields, uint64, celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	fields, code := extractUserFields(result.Payload, result.ExpirationBoundaryUnix, password)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	updated, code := replay.ValidatePowerVM(result.Payload.Type, result.Payload.ReplayIdPresent, persistedReplayId, result.Payload.ReplayId, failValidationIfReplayIdPresent)
	if code != celoginrc.Success {
		return celogin.AcfUserFields{}, persistedReplayId, code
	}

	return fields, updated, celoginrc.Success
}

// GetServiceAuthorityV1 is the legacy pre-V2-schema entry point: V1 ACFs
// are always service-type and never carry a replay id.
func GetServiceAuthorityV1(acfDER, publicKeyDER []byte, deviceSerial string, nowUnix int64, password []byte) (celogin.ServiceAuthority, celoginrc.Code) {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return celogin.AuthorityNone, code
	}
	if result.Payload.Version != celogin.AcfVersion1 {
		return celogin.AuthorityNone, celoginrc.UnsupportedVersion
	}
	fields, code := extractUserFields(result.Payload, result.ExpirationBoundaryUnix, password)
	if code != celoginrc.Success {
		return celogin.AuthorityNone, code
	}
	return fields.Service.Authority, celoginrc.Success
}

// CheckServiceAuthorityAcfIntegrityV1 verifies a V1 ACF's signature and
// expiry without requiring a password, mirroring the original's integrity
// check used before prompting the operator.
func CheckServiceAuthorityAcfIntegrityV1(acfDER, publicKeyDER []byte, deviceSerial string, nowUnix int64) celoginrc.Code {
	result, code := celoginvalidate.ValidateAndParse(acfDER, publicKeyDER, deviceSerial, nowUnix)
	if code != celoginrc.Success {
		return code
	}
	if result.Payload.Version != celogin.AcfVersion1 {
		return celoginrc.UnsupportedVersion
	}
	return celoginrc.Success
}
