package asn1seq_test

import (
	"testing"

	"github.com/openbmc-project/celogin/asn1seq"
	"github.com/openbmc-project/celogin/celoginfixture"
	"github.com/openbmc-project/celogin/celoginrc"
)

func TestDecodeRoundTrip(t *testing.T) {
	key, err := celoginfixture.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	acf, err := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("BuildACF: %v", err)
	}

	seq, code := asn1seq.Decode(acf)
	if code != celoginrc.Success {
		t.Fatalf("Decode failed: %v", code)
	}
	if code := seq.CheckAlgorithm(); code != celoginrc.Success {
		t.Errorf("CheckAlgorithm = %v, want Success", code)
	}
	if code := seq.CheckProcessingType(); code != celoginrc.Success {
		t.Errorf("CheckProcessingType = %v, want Success", code)
	}
	if len(seq.SourceFileData) == 0 {
		t.Error("SourceFileData is empty")
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	key, _ := celoginfixture.NewKeyPair()
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2",
	})
	withTrailer := append(append([]byte(nil), acf...), 0x00)
	if _, code := asn1seq.Decode(withTrailer); code != celoginrc.VerifyAcfAsnDecodeFailure {
		t.Errorf("code = %v, want VerifyAcfAsnDecodeFailure", code)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, code := asn1seq.Decode([]byte{0x30, 0xFF}); code != celoginrc.VerifyAcfAsnDecodeFailure {
		t.Errorf("code = %v, want VerifyAcfAsnDecodeFailure", code)
	}
}
