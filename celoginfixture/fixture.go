// Package celoginfixture builds signed test ACFs for use by other
// packages' tests. It is not imported by any production code.
package celoginfixture

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/openbmc-project/celogin/asn1seq"
)

var sha512WithRSA = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}

// KeyPair bundles a test RSA key with its DER SubjectPublicKeyInfo.
type KeyPair struct {
	Private      *rsa.PrivateKey
	PublicKeyDER []byte
}

// NewKeyPair generates a fresh 2048-bit test key.
func NewKeyPair() (KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return KeyPair{}, err
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Private: priv, PublicKeyDER: der}, nil
}

// Machine mirrors one element of the JSON "machines" array.
type Machine struct {
	SerialNumber string `json:"serialNumber"`
	FrameworkEc  string `json:"frameworkEc"`
}

// PayloadFields describes the JSON payload to embed in a generated ACF. Zero
// values are omitted as appropriate for the given Type.
type PayloadFields struct {
	Version    int
	Type       string
	Machines   []Machine
	Expiration string
	RequestId  string
	ReplayId   *uint64

	Password   string // service type: derives hashedAuthCode/salt/iterations
	Iterations int

	AdminAuthCodeHex string // administrative type

	AsciiScriptFile string // resourcedump/bmcshell
	BmcTimeout      *uint32
	IssueBmcDump    *bool
}

func buildPayloadJSON(p PayloadFields) ([]byte, error) {
	requestId := p.RequestId
	if requestId == "" {
		requestId = uuid.New().String()
	}
	m := map[string]interface{}{
		"version":    p.Version,
		"machines":   p.Machines,
		"expiration": p.Expiration,
		"requestId":  requestId,
	}
	if p.Type != "" {
		m["type"] = p.Type
	}
	if p.ReplayId != nil {
		m["replayId"] = *p.ReplayId
	}
	switch p.Type {
	case "", "service":
		salt := []byte("0102030405060708")
		iterations := p.Iterations
		if iterations == 0 {
			iterations = 100000
		}
		hashed, err := derivePBKDF2([]byte(p.Password), salt, iterations, 64)
		if err != nil {
			return nil, err
		}
		m["hashedAuthCode"] = hex.EncodeToString(hashed)
		m["salt"] = hex.EncodeToString(salt)
		m["iterations"] = iterations
	case "administrative":
		m["adminAuthCode"] = p.AdminAuthCodeHex
	case "resourcedump":
		m["asciiScriptFile"] = p.AsciiScriptFile
	case "bmcshell":
		m["asciiScriptFile"] = p.AsciiScriptFile
		m["bmcTimeout"] = p.BmcTimeout
		m["issueBmcDump"] = p.IssueBmcDump
	}
	return json.Marshal(m)
}

// BuildACF signs a PayloadFields document with key and DER-encodes the
// resulting CELoginSequence.
func BuildACF(key KeyPair, p PayloadFields) ([]byte, error) {
	payloadJSON, err := buildPayloadJSON(p)
	if err != nil {
		return nil, err
	}
	digest := sha512.Sum512(payloadJSON)
	signature, err := rsa.SignPKCS1v15(rand.Reader, key.Private, crypto.SHA512, digest[:])
	if err != nil {
		return nil, err
	}

	seq := struct {
		Algorithm      pkix.AlgorithmIdentifier
		ProcessingType string `asn1:"printable"`
		SourceFileData []byte
		Signature      []byte
	}{
		Algorithm:      pkix.AlgorithmIdentifier{Algorithm: sha512WithRSA},
		ProcessingType: asn1seq.ExpectedProcessingType,
		SourceFileData: payloadJSON,
		Signature:      signature,
	}
	der, err := asn1.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("celoginfixture: marshal sequence: %w", err)
	}
	return der, nil
}

func derivePBKDF2(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("invalid iterations")
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, sha512.New), nil
}
