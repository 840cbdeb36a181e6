package boxbulk

// Request schemas of the bulk operations.
var (
	FolderCreateSchema = RequestSchema{Mapper: FolderMapper, Required: []string{"name", "parent_id"}}
	FolderUpdateSchema = RequestSchema{Mapper: FolderMapper, Required: []string{"id"}}
	FolderDeleteSchema = RequestSchema{Mapper: FolderMapper, Required: []string{"id"}}
	FileUpdateSchema   = RequestSchema{Mapper: FileMapper, Required: []string{"id"}}
	UserCreateSchema   = RequestSchema{Mapper: UserMapper, Required: []string{"name", "login"}}
	UserUpdateSchema   = RequestSchema{Mapper: UserMapper, Required: []string{"id"}}
	GroupCreateSchema  = RequestSchema{Mapper: GroupMapper, Required: []string{"name"}}

	CollaborationAddSchema = RequestSchema{
		Mapper:   CollaborationMapper,
		Required: []string{"item_id", "item_type", "role"},
	}
	MetadataCreateSchema = RequestSchema{
		Mapper:   MetadataMapper,
		Required: []string{"item_id", "item_type", "scope", "template_key"},
	}
	TaskCreateSchema = RequestSchema{
		Mapper:   TaskMapper,
		Required: []string{"item_id", "action"},
	}
	TaskUpdateSchema = RequestSchema{
		Mapper:   TaskMapper,
		Required: []string{"id"},
	}
	TaskAssignmentCreateSchema = RequestSchema{
		Mapper:   TaskAssignmentMapper,
		Required: []string{"task_id"},
	}
)
