// Package run holds helpers shared by the run record stores.
package run

import "github.com/viant/hireflow/runtime/execution"

// Less orders runs by creation time, then id
func Less(a, b *execution.Run) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
