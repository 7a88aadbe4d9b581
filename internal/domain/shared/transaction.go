package shared

import "context"

// Transactor runs a function as a single atomic unit of work.
// Every repository call made with the context passed to fn joins the
// same transaction; an error from fn rolls the whole unit back.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
