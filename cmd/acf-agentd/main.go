// Command acf-agentd is the long-running daemon that wires the ACF
// orchestrator to real collaborators: a D-Bus serial number reader, a
// bbolt-backed replay store, and a filesystem-backed install/admin-reset
// implementation. It does not construct the pamacf authentication adapter.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginauth"
	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/cmd"
	"github.com/openbmc-project/celogin/dbusserial"
	"github.com/openbmc-project/celogin/pamacf"
	"github.com/openbmc-project/celogin/replaystore"
	"github.com/openbmc-project/celogin/tacf"
)

// fsCollaborator implements tacf.Collaborator and pamacf.Collaborator on
// top of plain files: a loaded ACF blob, trusted key files, a bbolt replay
// store, and an install directory. The trusted key paths come from
// AgentConfig; main sets the install directory and the admin-reset code
// file to fixed paths, and ReadFieldMode reads a fixed path.
type fsCollaborator struct {
	acfPath      string
	installDir   string
	adminResetFn func(authCode []byte) error
	keys         cmd.TrustedKeyConfig
	replay       *replaystore.Store
	serial       *dbusserial.Reader
}

func (f *fsCollaborator) ReadAcf() ([]byte, error) {
	return os.ReadFile(f.acfPath)
}

func (f *fsCollaborator) ReadPublicKey(slot pamacf.KeySlot) ([]byte, error) {
	var path string
	switch slot {
	case pamacf.KeyProduction:
		path = f.keys.ProductionKeyPath
	case pamacf.KeyProductionBackup:
		path = f.keys.ProductionBackupKeyPath
	case pamacf.KeyDevelopment:
		path = f.keys.DevelopmentKeyPath
	default:
		return nil, fmt.Errorf("unknown key slot %d", slot)
	}
	return os.ReadFile(path)
}

func (f *fsCollaborator) ReadSerialNumber() (string, error) {
	return f.serial.ReadSerialNumber()
}

func (f *fsCollaborator) ReadFieldMode() pamacf.FieldMode {
	data, err := os.ReadFile("/run/celogin/fieldmode")
	if err != nil {
		return pamacf.FieldModeUnreadable
	}
	if len(data) > 0 && data[0] == '1' {
		return pamacf.FieldModeEnabled
	}
	return pamacf.FieldModeDisabled
}

func (f *fsCollaborator) RetrieveReplayId() (uint64, error) {
	return f.replay.RetrieveReplayId()
}

func (f *fsCollaborator) StoreReplayId(id uint64) error {
	return f.replay.StoreReplayId(id)
}

func (f *fsCollaborator) FailDelay(d time.Duration) {
	time.Sleep(d)
}

func (f *fsCollaborator) ResetAdmin(authCode []byte) error {
	return f.adminResetFn(authCode)
}

func (f *fsCollaborator) RemoveAcf() error {
	return os.Remove(f.acfPath)
}

func (f *fsCollaborator) InstallAcf(acfType celogin.AcfType, fields celogin.AcfUserFields) error {
	if err := os.MkdirAll(f.installDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(f.installDir+"/installed-"+string(acfType), []byte("installed"), 0600)
}

// GetAuth adapts celoginauth's three call-boundary entry points to
// tacf.Collaborator's signature, using only the production key. Which
// entry point runs depends on action, mirroring the original orchestrator's
// per-action dispatch: ActionInstall wants full replay validation so a
// fresh, larger replay id is accepted and persisted; ActionAuthenticate
// wants an exact replay match and a password; ActionVerify is metadata-only
// and touches neither the password nor the replay counter.
func (f *fsCollaborator) GetAuth(action tacf.Action, password []byte) (celogin.AcfUserFields, uint64, celoginrc.Code) {
	acf, err := f.ReadAcf()
	if err != nil {
		return celogin.AcfUserFields{}, 0, celoginrc.Failure
	}
	pub, err := f.ReadPublicKey(pamacf.KeyProduction)
	if err != nil {
		return celogin.AcfUserFields{}, 0, celoginrc.Failure
	}
	serial, err := f.ReadSerialNumber()
	if err != nil {
		serial = ""
	}
	normalizedSerial := celogin.NormalizeSerial(serial)
	now := time.Now().Unix()

	if action == tacf.ActionVerify {
		meta, code := celoginauth.ExtractACFMetadata(acf, pub, normalizedSerial, now)
		if code != celoginrc.Success {
			return celogin.AcfUserFields{}, 0, code
		}
		fields := celogin.AcfUserFields{
			Version:            meta.Version,
			Type:               meta.Type,
			ExpirationTimeUnix: meta.ExpirationTime.Unix(),
			ReplayIdPresent:    meta.HasReplayId,
		}
		return fields, 0, celoginrc.Success
	}

	persisted, err := f.RetrieveReplayId()
	if err != nil {
		return celogin.AcfUserFields{}, 0, celoginrc.Failure
	}

	if action == tacf.ActionInstall {
		return celoginauth.InstallACFAndGetUserFields(acf, pub, normalizedSerial, now, password, persisted)
	}

	fields, code := celoginauth.CheckAuthorizationAndGetAcfUserFields(
		acf, pub, normalizedSerial, now, password, persisted)
	return fields, persisted, code
}

func main() {
	configPath := flag.String("config", "", "path to the agent JSON config file")
	flag.Parse()
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "acf-agentd: -config is required")
		os.Exit(1)
	}

	scope, logger := cmd.StatsAndLogging()
	defer logger.Sync()

	var c cmd.Config
	cmd.FailOnError(cmd.ReadConfigFile(*configPath, &c), "Could not read config file")

	replay, err := replaystore.Open(c.Agent.ReplayStorePath)
	cmd.FailOnError(err, "Could not open replay store")
	defer replay.Close()

	serialReader, err := dbusserial.NewReader()
	cmd.FailOnError(err, "Could not connect to D-Bus")
	defer serialReader.Close()

	collab := &fsCollaborator{
		installDir: "/var/lib/celogin/installed",
		keys:       c.Agent.TrustedKeys,
		replay:     replay,
		serial:     serialReader,
		adminResetFn: func(authCode []byte) error {
			return os.WriteFile("/var/lib/celogin/admin-reset-code", authCode, 0600)
		},
	}

	orchestrator := tacf.New(collab, logger, scope)
	// pamAdapter is not driven from this process: it is loaded into
	// libpam by name and runs inside whatever
	// process calls pam_authenticate, sharing this same fsCollaborator
	// shape but constructed by that process's own main. Constructing one
	// here would just be dead weight, so acf-agentd only serves the
	// targeted-auth socket.

	if c.Agent.DebugAddr != "" {
		go cmd.DebugServer(c.Agent.DebugAddr, logger)
	}

	if c.Agent.SocketPath != "" {
		go func() {
			cmd.FailOnError(serve(c.Agent.SocketPath, orchestrator, logger), "targeted auth socket exited")
		}()
	}

	cmd.CatchSignals(logger, nil)
}
