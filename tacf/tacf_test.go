package tacf

import (
	"errors"
	"testing"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/metrics"
)

type fakeCollaborator struct {
	persistedReplay  uint64
	authFields       celogin.AcfUserFields
	authUpdated      uint64
	authCode         celoginrc.Code
	resetAdminErr    error
	installErr       error
	removeErr        error
	storedReplayIds  []uint64
	gotAction        Action
}

func (f *fakeCollaborator) GetAuth(action Action, password []byte) (celogin.AcfUserFields, uint64, celoginrc.Code) {
	f.gotAction = action
	return f.authFields, f.authUpdated, f.authCode
}

func (f *fakeCollaborator) RetrieveReplayId() (uint64, error) {
	return f.persistedReplay, nil
}

func (f *fakeCollaborator) StoreReplayId(id uint64) error {
	f.storedReplayIds = append(f.storedReplayIds, id)
	f.persistedReplay = id
	return nil
}

func (f *fakeCollaborator) ResetAdmin(authCode []byte) error {
	return f.resetAdminErr
}

func (f *fakeCollaborator) RemoveAcf() error {
	return f.removeErr
}

func (f *fakeCollaborator) InstallAcf(acfType celogin.AcfType, fields celogin.AcfUserFields) error {
	return f.installErr
}

func TestReplayRollbackOnDispatchFailure(t *testing.T) {
	collab := &fakeCollaborator{
		persistedReplay: 5,
		authFields: celogin.AcfUserFields{
			Type:       celogin.AcfTypeAdminReset,
			AdminReset: &celogin.AdminResetFields{AuthCode: []byte{0x01}},
		},
		authUpdated:   7,
		authCode:      celoginrc.Success,
		resetAdminErr: errors.New("reset failed"),
	}
	o := New(collab, nil, metrics.NewNoopScope())

	_, code := o.TargetedAuth(ActionInstall, nil)
	if code != celoginrc.Failure {
		t.Fatalf("TargetedAuth code = %v, want Failure", code)
	}
	if collab.persistedReplay != 5 {
		t.Errorf("persisted replay = %d, want rolled back to 5", collab.persistedReplay)
	}
	if len(collab.storedReplayIds) != 2 || collab.storedReplayIds[0] != 7 || collab.storedReplayIds[1] != 5 {
		t.Errorf("storedReplayIds = %v, want [7 5]", collab.storedReplayIds)
	}
}

func TestInstallSuccessPersistsReplay(t *testing.T) {
	collab := &fakeCollaborator{
		persistedReplay: 9,
		authFields: celogin.AcfUserFields{
			Type:         celogin.AcfTypeResourceDump,
			ResourceDump: &celogin.ResourceDumpFields{AsciiScriptFile: []byte("echo hi")},
		},
		authUpdated: 10,
		authCode:    celoginrc.Success,
	}
	o := New(collab, nil, metrics.NewNoopScope())

	_, code := o.TargetedAuth(ActionInstall, nil)
	if code != celoginrc.Success {
		t.Fatalf("TargetedAuth code = %v, want Success", code)
	}
	if collab.persistedReplay != 10 {
		t.Errorf("persisted replay = %d, want 10", collab.persistedReplay)
	}
}

func TestAuthenticateDoesNotTouchReplayState(t *testing.T) {
	collab := &fakeCollaborator{
		persistedReplay: 3,
		authFields:      celogin.AcfUserFields{Type: celogin.AcfTypeService, Service: &celogin.ServiceFields{Authority: celogin.AuthorityCE}},
		authUpdated:     3,
		authCode:        celoginrc.Success,
	}
	o := New(collab, nil, metrics.NewNoopScope())

	_, code := o.TargetedAuth(ActionAuthenticate, []byte("hunter2"))
	if code != celoginrc.Success {
		t.Fatalf("TargetedAuth code = %v, want Success", code)
	}
	if len(collab.storedReplayIds) != 0 {
		t.Errorf("storedReplayIds = %v, want none for Authenticate", collab.storedReplayIds)
	}
}

func TestTargetedAuthThreadsActionToGetAuth(t *testing.T) {
	for _, action := range []Action{ActionInstall, ActionAuthenticate, ActionVerify} {
		collab := &fakeCollaborator{
			authFields: celogin.AcfUserFields{
				Type:       celogin.AcfTypeAdminReset,
				AdminReset: &celogin.AdminResetFields{AuthCode: []byte{0x01}},
			},
			authCode: celoginrc.Success,
		}
		o := New(collab, nil, metrics.NewNoopScope())
		if _, code := o.TargetedAuth(action, nil); code != celoginrc.Success {
			t.Fatalf("action %v: TargetedAuth code = %v, want Success", action, code)
		}
		if collab.gotAction != action {
			t.Errorf("action %v: GetAuth saw action %v", action, collab.gotAction)
		}
	}
}

func TestGetAuthFailureShortCircuits(t *testing.T) {
	collab := &fakeCollaborator{
		persistedReplay: 0,
		authCode:        celoginrc.SignatureNotValid,
	}
	o := New(collab, nil, metrics.NewNoopScope())

	_, code := o.TargetedAuth(ActionInstall, nil)
	if code != celoginrc.SignatureNotValid {
		t.Fatalf("TargetedAuth code = %v, want SignatureNotValid", code)
	}
}
