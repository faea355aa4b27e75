// SPDX-License-Identifier: MPL-2.0

package main

import cmd "shutl/cmd/shutl"

func main() {
	cmd.Execute()
}
