// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the metacheck command-line interface.
//
// The command tree is built per invocation from an App, which carries the
// configuration provider and output writers. Handlers never call os.Exit;
// they return *ExitError and Main maps it to the process status:
//   - 0: every checked document passed
//   - 1: at least one document failed a rule
//   - 2: invalid flags or arguments
//   - 3: configuration, filesystem or git failures
package cmd
