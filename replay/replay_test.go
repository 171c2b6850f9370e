package replay

import (
	"testing"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginrc"
)

func TestValidateServiceToleratesEqual(t *testing.T) {
	updated, code := Validate(celogin.AcfTypeService, true, 5, 5)
	if code != celoginrc.Success || updated != 5 {
		t.Errorf("Validate = (%d, %v), want (5, Success)", updated, code)
	}
}

func TestValidateServiceRejectsLower(t *testing.T) {
	_, code := Validate(celogin.AcfTypeService, true, 5, 4)
	if code != celoginrc.InvalidReplayId {
		t.Errorf("code = %v, want InvalidReplayId", code)
	}
}

func TestValidateNonServiceRequiresStrictGreater(t *testing.T) {
	if _, code := Validate(celogin.AcfTypeAdminReset, true, 5, 5); code != celoginrc.InvalidReplayId {
		t.Errorf("equal replay id for admin reset: code = %v, want InvalidReplayId", code)
	}
	updated, code := Validate(celogin.AcfTypeAdminReset, true, 5, 6)
	if code != celoginrc.Success || updated != 6 {
		t.Errorf("Validate = (%d, %v), want (6, Success)", updated, code)
	}
}

func TestValidateAbsentReplayIdIsExempt(t *testing.T) {
	updated, code := Validate(celogin.AcfTypeAdminReset, false, 5, 0)
	if code != celoginrc.Success || updated != 5 {
		t.Errorf("Validate = (%d, %v), want (5, Success)", updated, code)
	}
}

func TestValidateExact(t *testing.T) {
	if code := ValidateExact(true, 10, 10); code != celoginrc.Success {
		t.Errorf("code = %v, want Success", code)
	}
	if code := ValidateExact(true, 9, 10); code != celoginrc.ReplayIdPersistenceFailure {
		t.Errorf("code = %v, want ReplayIdPersistenceFailure", code)
	}
}

func TestValidatePowerVMFailsWhenPresent(t *testing.T) {
	_, code := ValidatePowerVM(celogin.AcfTypeService, true, 5, 6, true)
	if code != celoginrc.PowerVMRequestedReplayFailure {
		t.Errorf("code = %v, want PowerVMRequestedReplayFailure", code)
	}
}
