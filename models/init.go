package models

import (
	"log"

	"ingest/access"
	"ingest/db"
)

// Resource type tags used by policies and the evaluator.
const (
	ResourceTypeDestination = "destination"
	ResourceTypeProject     = "project"
	ResourceTypeRequest     = "request"
	ResourceTypeTemplate    = "template"
	ResourceTypePolicy      = "policy"
)

func Init() {
	for _, model := range []interface{}{
		&User{},
		&Group{},
		&GroupMember{},
		&Destination{},
		&Project{},
		&Request{},
		&Template{},
		&Upload{},
		&Policy{},
	} {
		if err := db.Instance.AutoMigrate(model); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
	for _, table := range memberTables {
		if err := db.Instance.Table(table).AutoMigrate(&Member{}); err != nil {
			log.Fatalf("migration of %s failed: %v", table, err)
		}
	}

	access.Register(ResourceTypeDestination, loadDestination)
	access.Register(ResourceTypeProject, loadProject)
	access.Register(ResourceTypeRequest, loadRequest)
	access.Register(ResourceTypeTemplate, loadTemplate)
	access.Register(ResourceTypePolicy, loadPolicy)
}
