// kubevault compiles a directory of secret files and per-user ACL rules
// into Kubernetes manifests.
package main

import (
	"os"

	"github.com/xunleii/kubevault/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
