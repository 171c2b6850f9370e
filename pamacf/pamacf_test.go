package pamacf

import (
	"testing"
	"time"

	"github.com/openbmc-project/celogin/celoginfixture"
	"github.com/openbmc-project/celogin/celoginrc"
)

type fakeCollaborator struct {
	acf            []byte
	keys           map[KeySlot][]byte
	serial         string
	serialErr      error
	fieldMode      FieldMode
	persistedReplay uint64
	delays         []time.Duration
}

func (f *fakeCollaborator) ReadAcf() ([]byte, error) { return f.acf, nil }

func (f *fakeCollaborator) ReadPublicKey(slot KeySlot) ([]byte, error) {
	k, ok := f.keys[slot]
	if !ok {
		return nil, errNoSuchKey
	}
	return k, nil
}

func (f *fakeCollaborator) ReadSerialNumber() (string, error) { return f.serial, f.serialErr }
func (f *fakeCollaborator) ReadFieldMode() FieldMode          { return f.fieldMode }
func (f *fakeCollaborator) RetrieveReplayId() (uint64, error) { return f.persistedReplay, nil }
func (f *fakeCollaborator) FailDelay(d time.Duration)         { f.delays = append(f.delays, d) }

type testErr string

func (e testErr) Error() string { return string(e) }

var errNoSuchKey = testErr("no such key")

func TestAuthenticateIgnoresOtherUsers(t *testing.T) {
	a := New(&fakeCollaborator{}, nil)
	verdict, _ := a.Authenticate("root", []byte("x"))
	if verdict != VerdictIgnore {
		t.Errorf("verdict = %v, want VerdictIgnore", verdict)
	}
}

func TestAuthenticateSuccessWithProductionKey(t *testing.T) {
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
	collab := &fakeCollaborator{
		acf:       acf,
		keys:      map[KeySlot][]byte{KeyProduction: key.PublicKeyDER},
		serial:    "SRL0001",
		fieldMode: FieldModeEnabled,
	}
	a := New(collab, nil)
	verdict, code := a.Authenticate(ServiceUser, []byte("hunter2"))
	if verdict != VerdictSuccess || code != celoginrc.Success {
		t.Fatalf("Authenticate = (%v, %v), want (VerdictSuccess, Success)", verdict, code)
	}
	if len(collab.delays) != 0 {
		t.Errorf("fail delay applied on success: %v", collab.delays)
	}
}

func TestAuthenticateAppliesFailDelayOnDenial(t *testing.T) {
	collab := &fakeCollaborator{
		acf:       []byte("not a real acf"),
		keys:      map[KeySlot][]byte{},
		serial:    "SRL0001",
		fieldMode: FieldModeEnabled,
	}
	a := New(collab, nil)
	verdict, _ := a.Authenticate(ServiceUser, []byte("hunter2"))
	if verdict != VerdictDeny {
		t.Fatalf("verdict = %v, want VerdictDeny", verdict)
	}
	if len(collab.delays) != 1 || collab.delays[0] < MinFailDelay {
		t.Errorf("delays = %v, want one delay >= %v", collab.delays, MinFailDelay)
	}
}

func TestAuthenticateUnreadableFieldModeIsFatal(t *testing.T) {
	collab := &fakeCollaborator{fieldMode: FieldModeUnreadable, acf: []byte{}}
	a := New(collab, nil)
	verdict, _ := a.Authenticate(ServiceUser, []byte("x"))
	if verdict != VerdictSystemError {
		t.Errorf("verdict = %v, want VerdictSystemError", verdict)
	}
}

func TestAccountManagement(t *testing.T) {
	a := New(&fakeCollaborator{}, nil)
	if got := a.AccountManagement(ServiceUser); got != VerdictSuccess {
		t.Errorf("AccountManagement(service) = %v, want VerdictSuccess", got)
	}
	if got := a.AccountManagement("root"); got != VerdictDeny {
		t.Errorf("AccountManagement(root) = %v, want VerdictDeny", got)
	}
}

func TestChangeAuthToken(t *testing.T) {
	a := New(&fakeCollaborator{}, nil)
	if got := a.ChangeAuthToken(ServiceUser); got != VerdictDeny {
		t.Errorf("ChangeAuthToken(service) = %v, want VerdictDeny", got)
	}
	if got := a.ChangeAuthToken("root"); got != VerdictIgnore {
		t.Errorf("ChangeAuthToken(root) = %v, want VerdictIgnore", got)
	}
}
