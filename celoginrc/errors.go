// Package celoginrc provides the packed (component, reason) result code used
// throughout the ACF validation and authorization pipeline, mirroring the
// flat two-byte error taxonomy of the originating CeLoginRc enumeration.
package celoginrc

import "fmt"

// Component identifies which subsystem produced a Code.
type Component uint8

const (
	ComponentGeneric Component = iota
	ComponentDecode
	ComponentVerify
	ComponentAuthorize
	ComponentPrimitive
)

func (c Component) String() string {
	switch c {
	case ComponentGeneric:
		return "generic"
	case ComponentDecode:
		return "decode"
	case ComponentVerify:
		return "verify"
	case ComponentAuthorize:
		return "authorize"
	case ComponentPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Reason is the component-local reason code. Values are only unique within
// their Component.
type Reason uint8

// Code is the packed (component<<8 | reason) wire value, matching the
// operator uint16_t() conversion in the original CeLoginRc struct.
type Code struct {
	Component Component
	Reason    Reason
}

// Pack returns the two-byte wire form: high byte component, low byte reason.
func (c Code) Pack() uint16 {
	return uint16(c.Component)<<8 | uint16(c.Reason)
}

// IsSuccess reports whether c represents Success.
func (c Code) IsSuccess() bool {
	return c == Success
}

func (c Code) Error() string {
	return fmt.Sprintf("%s (%s/%d)", String(c), c.Component, c.Reason)
}

func newCode(comp Component, reason Reason) Code {
	return Code{Component: comp, Reason: reason}
}

// Generic reason codes.
const (
	rSuccess Reason = iota
	rFailure
	rUnsupportedVersion
	rSignatureNotValid
	rPasswordNotValid
	rAcfExpired
	rSerialNumberMismatch
	rJsonDataAllocationFailure
	rMissingReplayId
	rUnsupportedAcfType
	rInvalidReplayId
	rReplayIdPersistenceFailure
	rPowerVMRequestedReplayFailure
)

var (
	Success                        = newCode(ComponentGeneric, rSuccess)
	Failure                        = newCode(ComponentGeneric, rFailure)
	UnsupportedVersion             = newCode(ComponentGeneric, rUnsupportedVersion)
	SignatureNotValid              = newCode(ComponentGeneric, rSignatureNotValid)
	PasswordNotValid               = newCode(ComponentGeneric, rPasswordNotValid)
	AcfExpired                     = newCode(ComponentGeneric, rAcfExpired)
	SerialNumberMismatch           = newCode(ComponentGeneric, rSerialNumberMismatch)
	JsonDataAllocationFailure      = newCode(ComponentGeneric, rJsonDataAllocationFailure)
	MissingReplayId                = newCode(ComponentGeneric, rMissingReplayId)
	UnsupportedAcfType             = newCode(ComponentGeneric, rUnsupportedAcfType)
	InvalidReplayId                = newCode(ComponentGeneric, rInvalidReplayId)
	ReplayIdPersistenceFailure     = newCode(ComponentGeneric, rReplayIdPersistenceFailure)
	PowerVMRequestedReplayFailure  = newCode(ComponentGeneric, rPowerVMRequestedReplayFailure)
)

// Decode reason codes (DecodeHsf_*): malformed or missing JSON payload fields.
const (
	rDecodeReadVersionFailure Reason = iota
	rDecodeReadTypeFailure
	rDecodeReadExpirationFailure
	rDecodeReadMachinesFailure
	rDecodeReadHashedAuthCodeFailure
	rDecodeReadSaltFailure
	rDecodeReadIterationsFailure
	rDecodeReadRequestIdFailure
	rDecodeReadAdminAuthCodeFailure
	rDecodeReadAsciiScriptFileFailure
	rDecodeReadBmcTimeoutFailure
	rDecodeReadIssueBmcDumpFailure
	rDecodeReadReplayIdFailure
	rDecodeMachinesArrayEmpty
	rDecodeJsonParseFailure
)

var (
	DecodeHsfReadVersionFailure        = newCode(ComponentDecode, rDecodeReadVersionFailure)
	DecodeHsfReadTypeFailure           = newCode(ComponentDecode, rDecodeReadTypeFailure)
	DecodeHsfReadExpirationFailure     = newCode(ComponentDecode, rDecodeReadExpirationFailure)
	DecodeHsfReadMachinesFailure       = newCode(ComponentDecode, rDecodeReadMachinesFailure)
	DecodeHsfReadHashedAuthCodeFailure = newCode(ComponentDecode, rDecodeReadHashedAuthCodeFailure)
	DecodeHsfReadSaltFailure           = newCode(ComponentDecode, rDecodeReadSaltFailure)
	DecodeHsfReadIterationsFailure     = newCode(ComponentDecode, rDecodeReadIterationsFailure)
	DecodeHsfReadRequestIdFailure      = newCode(ComponentDecode, rDecodeReadRequestIdFailure)
	DecodeHsfReadAdminAuthCodeFailure  = newCode(ComponentDecode, rDecodeReadAdminAuthCodeFailure)
	DecodeHsfReadAsciiScriptFileFailure = newCode(ComponentDecode, rDecodeReadAsciiScriptFileFailure)
	DecodeHsfReadBmcTimeoutFailure     = newCode(ComponentDecode, rDecodeReadBmcTimeoutFailure)
	DecodeHsfReadIssueBmcDumpFailure   = newCode(ComponentDecode, rDecodeReadIssueBmcDumpFailure)
	DecodeHsfReadReplayIdFailure       = newCode(ComponentDecode, rDecodeReadReplayIdFailure)
	DecodeHsfMachinesArrayEmpty        = newCode(ComponentDecode, rDecodeMachinesArrayEmpty)
	DecodeHsfJsonParseFailure          = newCode(ComponentDecode, rDecodeJsonParseFailure)
)

// Verify reason codes (VerifyAcf_*): ASN.1 / signature pipeline failures.
const (
	rVerifyAsnDecodeFailure Reason = iota
	rVerifyOidMismatchFailure
	rVerifyProcessingTypeMismatch
	rVerifyPublicKeyImportFailure
	rVerifyInvalidParm
)

var (
	VerifyAcfAsnDecodeFailure         = newCode(ComponentVerify, rVerifyAsnDecodeFailure)
	VerifyAcfOidMismatchFailure       = newCode(ComponentVerify, rVerifyOidMismatchFailure)
	VerifyAcfProcessingTypeMismatch   = newCode(ComponentVerify, rVerifyProcessingTypeMismatch)
	VerifyAcfPublicKeyImportFailure   = newCode(ComponentVerify, rVerifyPublicKeyImportFailure)
	VerifyAcfInvalidParm              = newCode(ComponentVerify, rVerifyInvalidParm)
)

// Authorize reason codes: framework-EC mapping and severity/authority checks.
const (
	rDetermineAuthInvalidType Reason = iota
	rGetSevAuthInvalidSerialNumberLength
	rGetSevAuthInvalidParm
	rGetAuthFromFrameworkEcUnknownString
)

var (
	DetermineAuthInvalidType              = newCode(ComponentAuthorize, rDetermineAuthInvalidType)
	GetSevAuthInvalidSerialNumberLength   = newCode(ComponentAuthorize, rGetSevAuthInvalidSerialNumberLength)
	GetSevAuthInvalidParm                 = newCode(ComponentAuthorize, rGetSevAuthInvalidParm)
	GetAuthFromFrameworkEcUnknownString   = newCode(ComponentAuthorize, rGetAuthFromFrameworkEcUnknownString)
)

// Primitive reason codes: crypto/util layer failures.
const (
	rCreateDigestInvalidParm Reason = iota
	rCreateDigestBufferTooSmall
	rCreatePasswordHashInvalidIterations
	rCreatePasswordHashBackendFailure
	rHexToBinOddLength
	rHexToBinInvalidChar
	rHexToBinBufferTooSmall
	rDateFromStringInvalidFormat
	rDateFromStringInvalidComponent
	rGetAsn1TimeFailure
	rGetUnsignedIntFromStringInvalidChar
	rGetUnsignedIntFromStringTooLong
	rBase64DecodeInvalidLength
)

var (
	CreateDigestInvalidParm               = newCode(ComponentPrimitive, rCreateDigestInvalidParm)
	CreateDigestBufferTooSmall            = newCode(ComponentPrimitive, rCreateDigestBufferTooSmall)
	CreatePasswordHashInvalidIterations   = newCode(ComponentPrimitive, rCreatePasswordHashInvalidIterations)
	CreatePasswordHashBackendFailure      = newCode(ComponentPrimitive, rCreatePasswordHashBackendFailure)
	HexToBinOddLength                     = newCode(ComponentPrimitive, rHexToBinOddLength)
	HexToBinInvalidChar                   = newCode(ComponentPrimitive, rHexToBinInvalidChar)
	HexToBinBufferTooSmall                = newCode(ComponentPrimitive, rHexToBinBufferTooSmall)
	DateFromStringInvalidFormat           = newCode(ComponentPrimitive, rDateFromStringInvalidFormat)
	DateFromStringInvalidComponent        = newCode(ComponentPrimitive, rDateFromStringInvalidComponent)
	GetAsn1TimeFailure                    = newCode(ComponentPrimitive, rGetAsn1TimeFailure)
	GetUnsignedIntFromStringInvalidChar   = newCode(ComponentPrimitive, rGetUnsignedIntFromStringInvalidChar)
	GetUnsignedIntFromStringTooLong       = newCode(ComponentPrimitive, rGetUnsignedIntFromStringTooLong)
	Base64DecodeInvalidLength             = newCode(ComponentPrimitive, rBase64DecodeInvalidLength)
)

var names = map[Code]string{
	Success:                        "Success",
	Failure:                        "Failure",
	UnsupportedVersion:             "UnsupportedVersion",
	SignatureNotValid:              "SignatureNotValid",
	PasswordNotValid:               "PasswordNotValid",
	AcfExpired:                     "AcfExpired",
	SerialNumberMismatch:           "SerialNumberMismatch",
	JsonDataAllocationFailure:      "JsonDataAllocationFailure",
	MissingReplayId:                "MissingReplayId",
	UnsupportedAcfType:             "UnsupportedAcfType",
	InvalidReplayId:                "InvalidReplayId",
	ReplayIdPersistenceFailure:     "ReplayIdPersistenceFailure",
	PowerVMRequestedReplayFailure:  "PowerVMRequestedReplayFailure",

	DecodeHsfReadVersionFailure:         "DecodeHsf_ReadVersionFailure",
	DecodeHsfReadTypeFailure:            "DecodeHsf_ReadTypeFailure",
	DecodeHsfReadExpirationFailure:      "DecodeHsf_ReadExpirationFailure",
	DecodeHsfReadMachinesFailure:        "DecodeHsf_ReadMachinesFailure",
	DecodeHsfReadHashedAuthCodeFailure:  "DecodeHsf_ReadHashedAuthCodeFailure",
	DecodeHsfReadSaltFailure:            "DecodeHsf_ReadSaltFailure",
	DecodeHsfReadIterationsFailure:      "DecodeHsf_ReadIterationsFailure",
	DecodeHsfReadRequestIdFailure:       "DecodeHsf_ReadRequestIdFailure",
	DecodeHsfReadAdminAuthCodeFailure:   "DecodeHsf_ReadAdminAuthCodeFailure",
	DecodeHsfReadAsciiScriptFileFailure: "DecodeHsf_ReadAsciiScriptFileFailure",
	DecodeHsfReadBmcTimeoutFailure:      "DecodeHsf_ReadBmcTimeoutFailure",
	DecodeHsfReadIssueBmcDumpFailure:    "DecodeHsf_ReadIssueBmcDumpFailure",
	DecodeHsfReadReplayIdFailure:        "DecodeHsf_ReadReplayIdFailure",
	DecodeHsfMachinesArrayEmpty:         "DecodeHsf_MachinesArrayEmpty",
	DecodeHsfJsonParseFailure:           "DecodeHsf_JsonParseFailure",

	VerifyAcfAsnDecodeFailure:       "VerifyAcf_AsnDecodeFailure",
	VerifyAcfOidMismatchFailure:     "VerifyAcf_OidMismatchFailure",
	VerifyAcfProcessingTypeMismatch: "VerifyAcf_ProcessingTypeMismatch",
	VerifyAcfPublicKeyImportFailure: "VerifyAcf_PublicKeyImportFailure",
	VerifyAcfInvalidParm:            "VerifyAcf_InvalidParm",

	DetermineAuthInvalidType:            "DetermineAuth_InvalidType",
	GetSevAuthInvalidSerialNumberLength: "GetSevAuth_InvalidSerialNumberLength",
	GetSevAuthInvalidParm:               "GetSevAuth_InvalidParm",
	GetAuthFromFrameworkEcUnknownString: "GetAuthFromFrameworkEc_UnknownString",

	CreateDigestInvalidParm:             "CreateDigest_InvalidParm",
	CreateDigestBufferTooSmall:          "CreateDigest_BufferTooSmall",
	CreatePasswordHashInvalidIterations: "CreatePasswordHash_InvalidIterations",
	CreatePasswordHashBackendFailure:    "CreatePasswordHash_BackendFailure",
	HexToBinOddLength:                   "HexToBin_OddLength",
	HexToBinInvalidChar:                 "HexToBin_InvalidChar",
	HexToBinBufferTooSmall:              "HexToBin_BufferTooSmall",
	DateFromStringInvalidFormat:         "DateFromString_InvalidFormat",
	DateFromStringInvalidComponent:      "DateFromString_InvalidComponent",
	GetAsn1TimeFailure:                  "GetAsn1Time_Failure",
	GetUnsignedIntFromStringInvalidChar: "GetUnsignedIntFromString_InvalidChar",
	GetUnsignedIntFromStringTooLong:     "GetUnsignedIntFromString_TooLong",
	Base64DecodeInvalidLength:           "Base64Decode_InvalidLength",
}

// String renders the symbolic name of a Code, matching the lookup table the
// authentication adapter logs against. Unknown codes render their packed form.
func String(c Code) string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(0x%04x)", c.Pack())
}
