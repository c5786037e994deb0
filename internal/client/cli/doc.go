// Package cli provides the interactive CSE Manager command-line client.
//
// It wires configuration, the local session cache, the REST API services and
// a read-eval-print loop. A session saved by a previous run is restored at
// start-up; a 401 from the server ends it.
//
// Commands:
//   - register, login, logout
//   - clients, addclient
//   - tasks, addtask
//   - attach <taskID> <file>, attachments <taskID>
//   - help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
