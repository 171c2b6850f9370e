// Command acfctl is an operator CLI for describing and validating Access
// Control Files without requiring a running acf-agentd. It only reports
// results; it installs nothing and persists no replay id.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbmc-project/celogin/celogin"
	"github.com/openbmc-project/celogin/celoginauth"
	"github.com/openbmc-project/celogin/celoginrc"
)

var (
	acfPath    string
	pubkeyPath string
	serial     string
	password   string
	replayId   uint64
)

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "acfctl: %s\n", err)
		os.Exit(1)
	}
	return data
}

func printResult(v interface{}, code celoginrc.Code) {
	out := map[string]interface{}{
		"result": celoginrc.String(code),
		"code":   code.Pack(),
	}
	if code == celoginrc.Success && v != nil {
		out["fields"] = v
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	if code != celoginrc.Success {
		os.Exit(1)
	}
}

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print an ACF's type, version, and expiration without checking a password",
		Run: func(cmd *cobra.Command, args []string) {
			acf := readFile(acfPath)
			pub := readFile(pubkeyPath)
			meta, code := celoginauth.ExtractACFMetadata(acf, pub, celogin.NormalizeSerial(serial), time.Now().Unix())
			printResult(meta, code)
		},
	}
	return cmd
}

func newAuthenticateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authenticate",
		Short: "Run the authenticate-path authorization check against a persisted replay id",
		Run: func(cmd *cobra.Command, args []string) {
			acf := readFile(acfPath)
			pub := readFile(pubkeyPath)
			fields, code := celoginauth.CheckAuthorizationAndGetAcfUserFields(
				acf, pub, celogin.NormalizeSerial(serial), time.Now().Unix(), []byte(password), replayId)
			printResult(fields, code)
		},
	}
	return cmd
}

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Run the upload-path replay validation, printing the replay id to persist",
		Run: func(cmd *cobra.Command, args []string) {
			acf := readFile(acfPath)
			pub := readFile(pubkeyPath)
			updated, code := celoginauth.VerifyACFForBMCUpload(acf, pub, celogin.NormalizeSerial(serial), time.Now().Unix(), replayId)
			printResult(map[string]uint64{"updatedReplayId": updated}, code)
		},
	}
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:   "acfctl",
		Short: "Inspect and validate Access Control Files",
	}
	root.PersistentFlags().StringVar(&acfPath, "acf", "", "path to the DER-encoded ACF")
	root.PersistentFlags().StringVar(&pubkeyPath, "pubkey", "", "path to the DER SubjectPublicKeyInfo trusted key")
	root.PersistentFlags().StringVar(&serial, "serial", "", "device serial number")
	_ = root.MarkPersistentFlagRequired("acf")
	_ = root.MarkPersistentFlagRequired("pubkey")

	authCmd := newAuthenticateCmd()
	authCmd.Flags().StringVar(&password, "password", "", "operator password, required for service ACFs")
	authCmd.Flags().Uint64Var(&replayId, "persisted-replay-id", 0, "persisted replay id to check against")

	uploadCmd := newUploadCmd()
	uploadCmd.Flags().Uint64Var(&replayId, "persisted-replay-id", 0, "persisted replay id to validate against")

	root.AddCommand(newDescribeCmd(), authCmd, uploadCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
