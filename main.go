// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/tokenregistry/metacheck/cmd/metacheck"

func main() {
	cmd.Execute()
}
