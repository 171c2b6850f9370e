// Package celoginjson binds the UTF-8 JSON payload carried inside an ACF's
// sourceFileData into a typed Payload. Unknown top-level keys are ignored
// for forward compatibility; required keys missing from the document
// surface as distinct celoginrc.Code values rather than a generic parse
// error.
package celoginjson

import (
	"encoding/json"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/celoginutil"
)

// rawMachine mirrors the wire shape of one "machines" array element.
type rawMachine struct {
	SerialNumber string `json:"serialNumber"`
	FrameworkEc  string `json:"frameworkEc"`
}

// rawPayload is allocated on the heap (the caller holds it via a pointer)
// because the script and admin-auth-code fields can be large; it is the
// scratch structure the validator decodes the whole document into before
// extracting only what the matched type needs.
type rawPayload struct {
	Version         int          `json:"version"`
	Type            string       `json:"type"`
	Machines        []rawMachine `json:"machines"`
	HashedAuthCode  string       `json:"hashedAuthCode"`
	Salt            string       `json:"salt"`
	Iterations      int          `json:"iterations"`
	Expiration      string       `json:"expiration"`
	RequestId       string       `json:"requestId"`
	ReplayId        *uint64      `json:"replayId"`
	AdminAuthCode   string       `json:"adminAuthCode"`
	AsciiScriptFile string       `json:"asciiScriptFile"`
	BmcTimeout      *uint32      `json:"bmcTimeout"`
	IssueBmcDump    *bool        `json:"issueBmcDump"`
}

// Payload is the bound, type-checked form of the ACF JSON document, with
// the matched machine's Framework EC already resolved.
type Payload struct {
	Version        celogin.AcfVersion
	Type           celogin.AcfType
	Expiration     string
	RequestId      string
	MatchedSerial  string
	FrameworkEc    string
	HashedAuthCode []byte
	Salt           []byte
	Iterations     uint32

	AdminAuthCodeHex   string
	AsciiScriptFile    string
	BmcTimeout         uint32
	IssueBmcDump       bool

	ReplayIdPresent bool
	ReplayId        uint64
}

// requiredKeys are checked for presence before any typed decode is trusted;
// their absence is reported as a specific DecodeHsf_* code rather than
// falling through to a generic JSON error.
func requiredKeys(raw map[string]json.RawMessage) celoginrc.Code {
	must := []struct {
		key  string
		code celoginrc.Code
	}{
		{"version", celoginrc.DecodeHsfReadVersionFailure},
		{"machines", celoginrc.DecodeHsfReadMachinesFailure},
		{"expiration", celoginrc.DecodeHsfReadExpirationFailure},
		{"requestId", celoginrc.DecodeHsfReadRequestIdFailure},
	}
	for _, m := range must {
		if _, ok := raw[m.key]; !ok {
			return m.code
		}
	}
	return celoginrc.Success
}

// Bind decodes data into a Payload, resolving the machines array against
// deviceSerial (already normalized by the caller, e.g. via
// celogin.NormalizeSerial). The first entry whose serial equals
// deviceSerial, or which carries the celogin.UnsetSerial wildcard, wins.
func Bind(data []byte, deviceSerial string) (Payload, celoginrc.Code) {
	var presence map[string]json.RawMessage
	if err := json.Unmarshal(data, &presence); err != nil {
		return Payload{}, celoginrc.DecodeHsfJsonParseFailure
	}
	if code := requiredKeys(presence); code != celoginrc.Success {
		return Payload{}, code
	}

	raw := new(rawPayload)
	if err := json.Unmarshal(data, raw); err != nil {
		return Payload{}, celoginrc.DecodeHsfJsonParseFailure
	}

	if len(raw.Machines) == 0 {
		return Payload{}, celoginrc.DecodeHsfMachinesArrayEmpty
	}

	var matchedSerial, frameworkEc string
	matched := false
	for _, m := range raw.Machines {
		if m.SerialNumber == celogin.UnsetSerial || m.SerialNumber == deviceSerial {
			matchedSerial = m.SerialNumber
			frameworkEc = m.FrameworkEc
			matched = true
			break
		}
	}
	if !matched {
		return Payload{}, celoginrc.SerialNumberMismatch
	}

	version := celogin.AcfVersion(raw.Version)
	acfType := celogin.AcfType(raw.Type)
	if version == celogin.AcfVersion1 {
		acfType = celogin.AcfTypeService
	}

	p := Payload{
		Version:       version,
		Type:          acfType,
		Expiration:    raw.Expiration,
		RequestId:     raw.RequestId,
		MatchedSerial: matchedSerial,
		FrameworkEc:   frameworkEc,
	}

	switch acfType {
	case celogin.AcfTypeService:
		if raw.HashedAuthCode == "" {
			return Payload{}, celoginrc.DecodeHsfReadHashedAuthCodeFailure
		}
		if raw.Salt == "" {
			return Payload{}, celoginrc.DecodeHsfReadSaltFailure
		}
		if _, ok := presence["iterations"]; !ok {
			return Payload{}, celoginrc.DecodeHsfReadIterationsFailure
		}
		if raw.Iterations <= 0 {
			return Payload{}, celoginrc.DecodeHsfReadIterationsFailure
		}
		hashedAuthCode, code := celoginutil.HexToBin(raw.HashedAuthCode)
		if code != celoginrc.Success {
			return Payload{}, celoginrc.DecodeHsfReadHashedAuthCodeFailure
		}
		salt, code := celoginutil.HexToBin(raw.Salt)
		if code != celoginrc.Success {
			return Payload{}, celoginrc.DecodeHsfReadSaltFailure
		}
		p.HashedAuthCode = hashedAuthCode
		p.Salt = salt
		p.Iterations = uint32(raw.Iterations)
	case celogin.AcfTypeAdminReset:
		if raw.AdminAuthCode == "" {
			return Payload{}, celoginrc.DecodeHsfReadAdminAuthCodeFailure
		}
		p.AdminAuthCodeHex = raw.AdminAuthCode
	case celogin.AcfTypeResourceDump:
		if raw.AsciiScriptFile == "" {
			return Payload{}, celoginrc.DecodeHsfReadAsciiScriptFileFailure
		}
		p.AsciiScriptFile = raw.AsciiScriptFile
	case celogin.AcfTypeBmcShell:
		if raw.AsciiScriptFile == "" {
			return Payload{}, celoginrc.DecodeHsfReadAsciiScriptFileFailure
		}
		if raw.BmcTimeout == nil {
			return Payload{}, celoginrc.DecodeHsfReadBmcTimeoutFailure
		}
		if raw.IssueBmcDump == nil {
			return Payload{}, celoginrc.DecodeHsfReadIssueBmcDumpFailure
		}
		p.AsciiScriptFile = raw.AsciiScriptFile
		p.BmcTimeout = *raw.BmcTimeout
		p.IssueBmcDump = *raw.IssueBmcDump
	default:
		return Payload{}, celoginrc.DecodeHsfReadTypeFailure
	}

	if raw.ReplayId != nil {
		p.ReplayIdPresent = true
		p.ReplayId = *raw.ReplayId
	}

	return p, celoginrc.Success
}
