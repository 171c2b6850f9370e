package celoginauth

import (
	"testing"
	"time"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginfixture"
	"github.com/openbmc-project/celogin/celoginrc"
)

func mustKey(t *testing.T) celoginfixture.KeyPair {
	t.Helper()
	k, err := celoginfixture.NewKeyPair()
	if err != nil {
		t.Fatalf("NewKeyPair: %v", err)
	}
	return k
}

func TestHappyPathServiceAuth(t *testing.T) {
	key := mustKey(t)
	acf, err := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("BuildACF: %v", err)
	}
	fields, code := CheckAuthorizationAndGetAcfUserFields(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), []byte("hunter2"), 0)
	if code != celoginrc.Success {
		t.Fatalf("CheckAuthorizationAndGetAcfUserFields failed: %v", code)
	}
	if fields.Service == nil || fields.Service.Authority != celogin.AuthorityCE {
		t.Errorf("authority = %+v, want CE", fields.Service)
	}
}

func TestWrongPassword(t *testing.T) {
	key := mustKey(t)
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2",
	})
	if _, code := CheckAuthorizationAndGetAcfUserFields(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), []byte("wrong"), 0); code != celoginrc.PasswordNotValid {
		t.Errorf("code = %v, want PasswordNotValid", code)
	}
}

func TestUploadThenAuthenticateSplit(t *testing.T) {
	key := mustKey(t)
	replayId := uint64(10)
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "resourcedump",
		Machines:        []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration:      "2099-01-01", RequestId: "req-1",
		AsciiScriptFile: "echo hi", ReplayId: &replayId,
	})

	updated, code := VerifyACFForBMCUpload(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), 9)
	if code != celoginrc.Success || updated != 10 {
		t.Fatalf("VerifyACFForBMCUpload = (%d, %v), want (10, Success)", updated, code)
	}

	if _, code := CheckAuthorizationAndGetAcfUserFields(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), nil, 10); code != celoginrc.Success {
		t.Errorf("authenticate after correct persist: code = %v, want Success", code)
	}

	if _, code := CheckAuthorizationAndGetAcfUserFields(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), nil, 9); code != celoginrc.ReplayIdPersistenceFailure {
		t.Errorf("authenticate after failed persist: code = %v, want ReplayIdPersistenceFailure", code)
	}
}

func TestInstallACFAndGetUserFieldsAcceptsFreshReplay(t *testing.T) {
	key := mustKey(t)
	replayId := uint64(10)
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "administrative",
		Machines:         []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration:       "2099-01-01", RequestId: "req-1",
		AdminAuthCodeHex: "0102", ReplayId: &replayId,
	})

	fields, updated, code := InstallACFAndGetUserFields(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), nil, 9)
	if code != celoginrc.Success || updated != 10 {
		t.Fatalf("InstallACFAndGetUserFields = (%d, %v), want (10, Success)", updated, code)
	}
	if fields.AdminReset == nil || len(fields.AdminReset.AuthCode) == 0 {
		t.Errorf("AdminReset fields not populated: %+v", fields)
	}
}

func TestPowerVMRejectsReplayIdWhenConfigured(t *testing.T) {
	key := mustKey(t)
	replayId := uint64(1)
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2", ReplayId: &replayId,
	})
	_, _, code := CheckAuthorizationForPowerVM(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix(), []byte("hunter2"), 0, true)
	if code != celoginrc.PowerVMRequestedReplayFailure {
		t.Errorf("code = %v, want PowerVMRequestedReplayFailure", code)
	}
}

func TestExtractACFMetadataNoPasswordRequired(t *testing.T) {
	key := mustKey(t)
	acf, _ := celoginfixture.BuildACF(key, celoginfixture.PayloadFields{
		Version: 2, Type: "service",
		Machines:   []celoginfixture.Machine{{SerialNumber: "SRL0001", FrameworkEc: "PowerVM P10 Service"}},
		Expiration: "2099-01-01", RequestId: "req-1", Password: "hunter2",
	})
	meta, code := ExtractACFMetadata(acf, key.PublicKeyDER, "SRL0001", time.Now().Unix())
	if code != celoginrc.Success || meta.Type != celogin.AcfTypeService {
		t.Errorf("ExtractACFMetadata = (%+v, %v)", meta, code)
	}
}
