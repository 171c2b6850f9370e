package main

import (
	"encoding/json"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/openbmc-project/celogin/celoginrc"
	"github.com/openbmc-project/celogin/tacf"
)

// request is one line of newline-delimited JSON read from a connection to
// the agent's Unix socket. action mirrors tacf.Action by name so callers
// never need to import this package's internals.
type request struct {
	Action   string `json:"action"`
	Password string `json:"password"`
}

type response struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
}

var actionsByName = map[string]tacf.Action{
	"install":      tacf.ActionInstall,
	"authenticate": tacf.ActionAuthenticate,
	"verify":       tacf.ActionVerify,
}

// serve accepts connections on socketPath, one targeted-auth request per
// connection. The listener is owned by serve and not exposed to the
// caller; serve returns only when Listen or Accept fails, so callers run it
// in a goroutine.
func serve(socketPath string, orchestrator *tacf.Orchestrator, logger *zap.SugaredLogger) error {
	_ = os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go handleConn(conn, orchestrator, logger)
	}
}

func handleConn(conn net.Conn, orchestrator *tacf.Orchestrator, logger *zap.SugaredLogger) {
	defer conn.Close()

	var req request
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&req); err != nil {
		json.NewEncoder(conn).Encode(response{Code: celoginrc.Failure.Pack(), Message: "malformed request"})
		return
	}

	action, ok := actionsByName[req.Action]
	if !ok {
		json.NewEncoder(conn).Encode(response{Code: celoginrc.Failure.Pack(), Message: "unknown action"})
		return
	}

	_, code := orchestrator.TargetedAuth(action, []byte(req.Password))
	if logger != nil {
		logger.Infow("targeted auth request", "action", req.Action, "code", celoginrc.String(code))
	}
	json.NewEncoder(conn).Encode(response{Code: code.Pack(), Message: celoginrc.String(code)})
}
