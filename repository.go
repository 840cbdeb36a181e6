package boxbulk

// Repository represents a report repository with its own schema, like an Elasticsearch index.
type Repository struct {
	Name     string
	Schema   map[string]interface{}
	Settings map[string]interface{}
}
