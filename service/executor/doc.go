// Package executor dispatches workflow nodes to the handler registered for
// their card type. It is the glue layer between the scheduler and the card
// implementations under service/action.
package executor
