// Package celoginvalidate glues the ASN.1 decoder, crypto primitives, and
// JSON binder into the single ordered "decode, verify signature, parse
// JSON, check expiry" pipeline every ACF passes through before any
// authorization decision is made.
package celoginvalidate

import (
	"github.com/openbmc-project/celogin/asn1seq"
	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celogindate"
	"github.com/openbmc-project/celogin/celoginjson"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/celoginutil"
)

// Result is the successful output of ValidateAndParse: the bound JSON
// payload plus the absolute expiration boundary it was checked against.
type Result struct {
	Payload               celoginjson.Payload
	ExpirationBoundaryUnix int64
}

// ValidateAndParse runs the full validation pipeline described in
// celoginvalidate's package doc. deviceSerial should already be normalized
// (celogin.NormalizeSerial) by the caller; nowUnix is the current instant
// to check expiration against.
func ValidateAndParse(acfDER, publicKeyDER []byte, deviceSerial string, nowUnix int64) (Result, celoginrc.Code) {
	if len(acfDER) == 0 || len(publicKeyDER) == 0 {
		return Result{}, celoginrc.VerifyAcfInvalidParm
	}

	seq, code := asn1seq.Decode(acfDER)
	if code != celoginrc.Success {
		return Result{}, code
	}
	if code := seq.CheckAlgorithm(); code != celoginrc.Success {
		return Result{}, code
	}
	if code := seq.CheckProcessingType(); code != celoginrc.Success {
		return Result{}, code
	}

	digest, code := celoginutil.CreateDigest(seq.SourceFileData)
	if code != celoginrc.Success {
		return Result{}, code
	}

	if code := celoginutil.VerifySignature(publicKeyDER, digest[:], seq.Signature); code != celoginrc.Success {
		return Result{}, code
	}

	payload, code := celoginjson.Bind(seq.SourceFileData, deviceSerial)
	if code != celoginrc.Success {
		return Result{}, code
	}

	if payload.Version != celogin.AcfVersion1 && payload.Version != celogin.AcfVersion2 {
		return Result{}, celoginrc.UnsupportedVersion
	}

	boundary, code := celogindate.ParseExpirationDate(payload.Expiration)
	if code != celoginrc.Success {
		return Result{}, code
	}
	if celogindate.IsExpired(nowUnix, boundary) {
		return Result{}, celoginrc.AcfExpired
	}

	return Result{Payload: payload, ExpirationBoundaryUnix: boundary}, celoginrc.Success
}
