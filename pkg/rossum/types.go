package rossum

// APIObject names a remote collection.
type APIObject struct {
	Plural   string
	Singular string
}

// String returns the collection path segment.
func (o APIObject) String() string {
	return o.Plural
}

// Sideload returns a plain sideload of the collection.
func (o APIObject) Sideload() Sideload {
	return NewSideloadAs(o.Plural, o.Singular)
}

// Remote collections.
var (
	Organizations = APIObject{Plural: "organizations", Singular: "organization"}
	Workspaces    = APIObject{Plural: "workspaces", Singular: "workspace"}
	Queues        = APIObject{Plural: "queues", Singular: "queue"}
	Schemas       = APIObject{Plural: "schemas", Singular: "schema"}
	Connectors    = APIObject{Plural: "connectors", Singular: "connector"}
	Hooks         = APIObject{Plural: "hooks", Singular: "hook"}
	Inboxes       = APIObject{Plural: "inboxes", Singular: "inbox"}
	Users         = APIObject{Plural: "users", Singular: "user"}
	Groups        = APIObject{Plural: "groups", Singular: "group"}
	Annotations   = APIObject{Plural: "annotations", Singular: "annotation"}
	Documents     = APIObject{Plural: "documents", Singular: "document"}
	Pages         = APIObject{Plural: "pages", Singular: "page"}
	Modifiers     = APIObject{Plural: "modifiers", Singular: "modifier"}
)

// Annotation states reported while a document is processed.
const (
	AnnotationStatusImporting    = "importing"
	AnnotationStatusToReview     = "to_review"
	AnnotationStatusFailedImport = "failed_import"
	AnnotationStatusExported     = "exported"
)

// Hook types.
const (
	HookTypeWebhook  = "webhook"
	HookTypeFunction = "function"
)

// Organization is the typed view of an organization record.
type Organization struct {
	ID         int      `json:"id"         yaml:"id"`
	URL        string   `json:"url"        yaml:"url"`
	Name       string   `json:"name"       yaml:"name"`
	Workspaces []string `json:"workspaces" yaml:"workspaces"`
	Users      []string `json:"users"      yaml:"users"`
}

// Workspace is the typed view of a workspace record.
type Workspace struct {
	ID           int            `json:"id"           yaml:"id"`
	URL          string         `json:"url"          yaml:"url"`
	Name         string         `json:"name"         yaml:"name"`
	Organization string         `json:"organization" yaml:"organization"`
	Queues       []string       `json:"queues"       yaml:"queues"`
	Metadata     map[string]any `json:"metadata"     yaml:"metadata"`
}

// Queue is the typed view of a queue record.
type Queue struct {
	ID        int            `json:"id"        yaml:"id"`
	URL       string         `json:"url"       yaml:"url"`
	Name      string         `json:"name"      yaml:"name"`
	Workspace string         `json:"workspace" yaml:"workspace"`
	Schema    string         `json:"schema"    yaml:"schema"`
	Inbox     string         `json:"inbox"     yaml:"inbox"`
	Connector string         `json:"connector" yaml:"connector"`
	Users     []string       `json:"users"     yaml:"users"`
	Hooks     []string       `json:"hooks"     yaml:"hooks"`
	Locale    string         `json:"locale"    yaml:"locale"`
	Metadata  map[string]any `json:"metadata"  yaml:"metadata"`
}

// Schema is the typed view of a schema record.
type Schema struct {
	ID     int      `json:"id"     yaml:"id"`
	URL    string   `json:"url"    yaml:"url"`
	Name   string   `json:"name"   yaml:"name"`
	Queues []string `json:"queues" yaml:"queues"`
}

// Inbox is the typed view of an inbox record.
type Inbox struct {
	ID          int      `json:"id"              yaml:"id"`
	URL         string   `json:"url"             yaml:"url"`
	Name        string   `json:"name"            yaml:"name"`
	Email       string   `json:"email"           yaml:"email"`
	BounceEmail string   `json:"bounce_email_to" yaml:"bounce_email_to"`
	Queues      []string `json:"queues"          yaml:"queues"`
}

// Connector is the typed view of a connector record.
type Connector struct {
	ID           int      `json:"id"           yaml:"id"`
	URL          string   `json:"url"          yaml:"url"`
	Name         string   `json:"name"         yaml:"name"`
	ServiceURL   string   `json:"service_url"  yaml:"service_url"`
	Params       string   `json:"params"       yaml:"params"`
	Asynchronous bool     `json:"asynchronous" yaml:"asynchronous"`
	Queues       []string `json:"queues"       yaml:"queues"`
}

// Hook is the typed view of a hook record.
type Hook struct {
	ID       int            `json:"id"       yaml:"id"`
	URL      string         `json:"url"      yaml:"url"`
	Name     string         `json:"name"     yaml:"name"`
	Type     string         `json:"type"     yaml:"type"`
	Active   bool           `json:"active"   yaml:"active"`
	Events   []string       `json:"events"   yaml:"events"`
	Sideload []string       `json:"sideload" yaml:"sideload"`
	Queues   []string       `json:"queues"   yaml:"queues"`
	Config   map[string]any `json:"config"   yaml:"config"`
}

// User is the typed view of a user record.
type User struct {
	ID           int      `json:"id"           yaml:"id"`
	URL          string   `json:"url"          yaml:"url"`
	Username     string   `json:"username"     yaml:"username"`
	Email        string   `json:"email"        yaml:"email"`
	IsActive     bool     `json:"is_active"    yaml:"is_active"`
	Organization string   `json:"organization" yaml:"organization"`
	Groups       []string `json:"groups"       yaml:"groups"`
	Queues       []string `json:"queues"       yaml:"queues"`
}

// Group is the typed view of a user role group.
type Group struct {
	ID   int    `json:"id"   yaml:"id"`
	URL  string `json:"url"  yaml:"url"`
	Name string `json:"name" yaml:"name"`
}

// Annotation is the typed view of an annotation record.
type Annotation struct {
	ID       int            `json:"id"       yaml:"id"`
	URL      string         `json:"url"      yaml:"url"`
	Status   string         `json:"status"   yaml:"status"`
	Document string         `json:"document" yaml:"document"`
	Queue    string         `json:"queue"    yaml:"queue"`
	Content  string         `json:"content"  yaml:"content"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}
