// Package celoginutil implements the crypto and encoding primitives the
// rest of the ACF pipeline is built on: digest, PBKDF2 password hashing,
// RSA PKCS#1 v1.5 verification, constant-time comparison, and hex/base64
// conversion. Every function returns a celoginrc.Code instead of a bare
// error so callers can propagate the exact wire reason.
package celoginutil

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/subtle"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"

	"github.com/openbmc-project/celogin/celoginrc"
)

// DigestSize is the length in bytes of a SHA-512 digest.
const DigestSize = sha512.Size

// CreateDigest returns the SHA-512 digest of data.
func CreateDigest(data []byte) ([DigestSize]byte, celoginrc.Code) {
	var out [DigestSize]byte
	if len(data) == 0 {
		return out, celoginrc.CreateDigestInvalidParm
	}
	out = sha512.Sum512(data)
	return out, celoginrc.Success
}

// CreatePasswordHash derives a PBKDF2-HMAC-SHA-512 hash of password using
// salt, iterations, and the requested output length. iterations must be
// strictly positive and fit in a signed 32-bit range, matching the backend
// constraint of the original PKCS5_PBKDF2_HMAC call.
func CreatePasswordHash(password, salt []byte, iterations uint32, outLen int) ([]byte, celoginrc.Code) {
	if iterations == 0 || iterations > (1<<31-1) {
		return nil, celoginrc.CreatePasswordHashInvalidIterations
	}
	if outLen <= 0 {
		return nil, celoginrc.CreatePasswordHashBackendFailure
	}
	return pbkdf2.Key(password, salt, int(iterations), outLen, sha512.New), celoginrc.Success
}

// ConstantTimeCompare reports whether a and b are byte-for-byte equal,
// taking time independent of where they first differ.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// HexToBin decodes a hex string into bytes, rejecting odd length and
// non-hex characters outright.
func HexToBin(s string) ([]byte, celoginrc.Code) {
	if len(s)%2 != 0 {
		return nil, celoginrc.HexToBinOddLength
	}
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, celoginrc.HexToBinInvalidChar
	}
	return out, celoginrc.Success
}

// Base64Decode decodes standard base64, requiring input length divisible
// by 4 as the original implementation does before accounting for padding.
func Base64Decode(s string) ([]byte, celoginrc.Code) {
	if len(s)%4 != 0 {
		return nil, celoginrc.Base64DecodeInvalidLength
	}
	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, celoginrc.Base64DecodeInvalidLength
	}
	return out, celoginrc.Success
}

// VerifySignature verifies an RSA PKCS#1 v1.5 signature over a SHA-512
// digest using a DER-encoded SubjectPublicKeyInfo. A key that does not parse
// or is not an RSA key yields VerifyAcfPublicKeyImportFailure; any failure of
// the verification itself (padding or digest mismatch) collapses to
// SignatureNotValid, never a partial result.
func VerifySignature(publicKeyDER []byte, digest []byte, signature []byte) celoginrc.Code {
	pub, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return celoginrc.VerifyAcfPublicKeyImportFailure
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return celoginrc.VerifyAcfPublicKeyImportFailure
	}
	if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA512, digest, signature); err != nil {
		return celoginrc.SignatureNotValid
	}
	return celoginrc.Success
}

// GetUnsignedIntFromString parses a strictly digit-only, non-negative
// integer of 1 to 10 characters; values above the uint32 maximum are
// rejected as too long.
func GetUnsignedIntFromString(s string) (uint32, celoginrc.Code) {
	if len(s) == 0 || len(s) > 10 {
		return 0, celoginrc.GetUnsignedIntFromStringTooLong
	}
	var v uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, celoginrc.GetUnsignedIntFromStringInvalidChar
		}
		v = v*10 + uint64(r-'0')
	}
	if v > 0xFFFFFFFF {
		return 0, celoginrc.GetUnsignedIntFromStringTooLong
	}
	return uint32(v), celoginrc.Success
}
