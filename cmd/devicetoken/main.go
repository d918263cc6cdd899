// Command devicetoken mints the bearer token a door controller sends to
// the device API.  The signing key is derived from SESSION_SECRET, so the
// token is only valid against servers sharing that secret.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/door-access-admin/internal/config"
	"github.com/iliyamo/door-access-admin/internal/utils"
)

func main() {
	device := pflag.StringP("device", "d", "", "controller name, usually the door it guards (required)")
	ttl := pflag.Duration("ttl", 365*24*time.Hour, "token lifetime; 0 issues a token that never expires")
	pflag.Parse()

	if strings.TrimSpace(*device) == "" {
		fmt.Fprintln(os.Stderr, "devicetoken: --device is required")
		pflag.Usage()
		os.Exit(2)
	}
	secret, err := config.LoadSessionSecret()
	if err != nil {
		fmt.Fprintln(os.Stderr, "devicetoken:", err)
		os.Exit(1)
	}

	tok, err := utils.NewDeviceToken(utils.DeriveKey(secret, utils.PurposeDeviceToken), strings.TrimSpace(*device), *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "devicetoken:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	if !tok.Exp.IsZero() {
		fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
	}
}
