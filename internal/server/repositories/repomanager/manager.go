package repomanager

import (
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/ghiblifav/internal/server/repositories/users"
)

// Backend is the full persistence capability set. PostgresBackend and
// filestore.Store implement it; Selector picks one of them once.
type Backend interface {
	users.Repository
	favorites.Repository
}
