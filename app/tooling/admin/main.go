// This program performs administrative tasks for the proof of work ledger.
package main

import "github.com/ardanlabs/powledger/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
