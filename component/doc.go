// Package component defines lifecycle-managed parts of the document client.
//
// A Component is started before a command fetches anything and stopped when
// it exits. Registry starts components in registration order and stops them
// in reverse, bounding each Stop call with a timeout.
//
//   - Component: Start, Stop, Health
//   - Describable: one-line summary printed by the CLI in verbose mode
package component
