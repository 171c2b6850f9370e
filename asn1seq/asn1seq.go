// Package asn1seq decodes the DER-encoded CELoginSequence that wraps every
// ACF: an algorithm identifier, a processing-type tag, the JSON payload,
// and the RSA signature over that payload.
package asn1seq

import (
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/openbmc-project/celogin/celoginrc"
)

// ExpectedProcessingType is the fixed ASCII tag that scopes a signature to
// this product line. Any sequence carrying a different tag is rejected
// before the signature is even checked, preventing signature reuse across
// unrelated products that might share a signing key.
const ExpectedProcessingType = "se.celogin.acf"

// sha512WithRSAEncryption, the only algorithm this decoder accepts.
var expectedAlgorithmOID = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}

// CELoginSequence is the structural decode of the outer DER SEQUENCE.
// encoding/asn1 copies the octet strings, so SourceFileData and Signature
// do not alias the input and stay valid after it is released.
type CELoginSequence struct {
	Algorithm       pkix.AlgorithmIdentifier
	ProcessingType  string `asn1:"printable"`
	SourceFileData  []byte
	Signature       []byte
}

type rawCELoginSequence struct {
	Algorithm      pkix.AlgorithmIdentifier
	ProcessingType string `asn1:"printable"`
	SourceFileData []byte
	Signature      []byte
}

// Decode parses der as a CELoginSequence, rejecting trailing bytes and
// malformed length encodings.
func Decode(der []byte) (CELoginSequence, celoginrc.Code) {
	var raw rawCELoginSequence
	rest, err := asn1.Unmarshal(der, &raw)
	if err != nil {
		return CELoginSequence{}, celoginrc.VerifyAcfAsnDecodeFailure
	}
	if len(rest) != 0 {
		return CELoginSequence{}, celoginrc.VerifyAcfAsnDecodeFailure
	}
	return CELoginSequence(raw), celoginrc.Success
}

// CheckAlgorithm verifies the decoded algorithm identifier names
// sha512WithRSAEncryption.
func (s CELoginSequence) CheckAlgorithm() celoginrc.Code {
	if !s.Algorithm.Algorithm.Equal(expectedAlgorithmOID) {
		return celoginrc.VerifyAcfOidMismatchFailure
	}
	return celoginrc.Success
}

// CheckProcessingType verifies a byte-exact match against
// ExpectedProcessingType.
func (s CELoginSequence) CheckProcessingType() celoginrc.Code {
	if s.ProcessingType != ExpectedProcessingType {
		return celoginrc.VerifyAcfProcessingTypeMismatch
	}
	return celoginrc.Success
}
