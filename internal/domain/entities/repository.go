package entities

import (
	gitforgeEntities "github.com/rios0rios0/gitforge/pkg/global/domain/entities"
)

// Repository is re-exported from gitforge.
type Repository = gitforgeEntities.Repository

// File is re-exported from gitforge.
type File = gitforgeEntities.File
