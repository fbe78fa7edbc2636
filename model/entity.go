package model

// Versioned entities carry an optimistic-concurrency counter.
type Versioned interface {
	GetVersion() int
	SetVersion(v int)
}

// ProjectScoped entities belong to a project and can be filtered by it.
type ProjectScoped interface {
	ProjectColumn() string
}

// AllModels lists every persisted entity in dependency order.
func AllModels() []any {
	return []any{&User{}, &Project{}, &Sprint{}, &Task{}, &Risk{}, &TimeLog{}}
}

// Entity is implemented by every persisted record.
type Entity interface {
	TableName() string
	IDColumn() string
	ID() int
}
