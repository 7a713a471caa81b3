package rossum

import (
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults applied to create requests and polling.
const (
	DefaultRIRURL          = "https://all.rir.rossum.ai"
	DefaultPollInterval    = 5 * time.Second
	DefaultPollMaxRetries  = 120
	DefaultUserGroup       = "annotator"
	DefaultUserLocale      = "en"
	DefaultDeleteItemLabel = "annotation"
)

// QueueFilter narrows ListQueues. Zero values are ignored.
type QueueFilter struct {
	IDs       []int
	Workspace int
	Users     []int
	Hooks     []int
}

// UserFilter narrows ListUsers.
type UserFilter struct {
	Username string
	IsActive *bool
}

// AnnotationFilter narrows ListAnnotations.
type AnnotationFilter struct {
	Queue     int
	Status    []string
	Sideloads []Sideload
}

// ListOptions tunes a paginated fetch.
type ListOptions struct {
	// ResultKey is the list returned to the caller, "results" when empty.
	ResultKey string
	Sideloads []Sideload
}

// WorkspaceCreate is the input of CreateWorkspace.
type WorkspaceCreate struct {
	Name         string         `json:"name"`
	Organization string         `json:"organization"`
	Metadata     map[string]any `json:"metadata"`
}

// Validate implements validation.Validatable.
func (w WorkspaceCreate) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Name, validation.Required),
		validation.Field(&w.Organization, validation.Required),
	)
}

// QueueCreate is the input of CreateQueue.
type QueueCreate struct {
	Name      string   `json:"name"`
	Workspace string   `json:"workspace"`
	Schema    string   `json:"schema"`
	Connector string   `json:"connector"`
	Hooks     []string `json:"hooks"`
	Locale    string   `json:"locale"`
	RIRURL    string   `json:"rir_url"`
	RIRParams string   `json:"rir_params"`
}

// Validate implements validation.Validatable.
func (q QueueCreate) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Name, validation.Required),
		validation.Field(&q.Workspace, validation.Required),
		validation.Field(&q.Schema, validation.Required),
	)
}

// InboxCreate is the input of CreateInbox. EmailPrefix or Email must be set.
type InboxCreate struct {
	Name        string `json:"name"`
	EmailPrefix string `json:"email_prefix"`
	BounceEmail string `json:"bounce_email_to"`
	Queue       string `json:"queue"`
	Email       string `json:"email"`
}

// Validate implements validation.Validatable.
func (i InboxCreate) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.Required),
		validation.Field(&i.Queue, validation.Required),
		validation.Field(&i.EmailPrefix, validation.When(i.Email == "",
			validation.Required.Error("inbox cannot be created without email prefix or email specified"))),
	)
}

// UserCreate is the input of CreateUser. Group is looked up by name.
type UserCreate struct {
	Username     string   `json:"username"`
	Organization string   `json:"organization"`
	Queues       []string `json:"queues"`
	Password     string   `json:"password"`
	Group        string   `json:"group"`
	Locale       string   `json:"locale"`
}

// Validate implements validation.Validatable.
func (u UserCreate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.Required),
		validation.Field(&u.Organization, validation.Required),
		validation.Field(&u.Password, validation.Required),
		validation.Field(&u.Group, validation.In("annotator", "admin", "manager", "viewer")),
		validation.Field(&u.Locale, validation.In("en", "cs")),
	)
}

// ConnectorCreate is the input of CreateConnector.
type ConnectorCreate struct {
	Name               string   `json:"name"`
	Queues             []string `json:"queues"`
	ServiceURL         string   `json:"service_url"`
	AuthorizationToken string   `json:"authorization_token"`
	Params             string   `json:"params"`
	Asynchronous       bool     `json:"asynchronous"`
}

// Validate implements validation.Validatable.
func (c ConnectorCreate) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Queues, validation.Required),
		validation.Field(&c.ServiceURL, validation.Required),
	)
}

// HookCreate is the input of CreateHook. Extra fields are merged into the
// request body as is.
type HookCreate struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Queues     []string       `json:"queues"`
	Active     bool           `json:"active"`
	Events     []string       `json:"events"`
	Sideload   []string       `json:"sideload"`
	Config     map[string]any `json:"config"`
	RunAfter   []string       `json:"run_after"`
	Metadata   map[string]any `json:"metadata"`
	TokenOwner string         `json:"token_owner"`
	Test       map[string]any `json:"test"`
	Extra      map[string]any `json:"-"`
}

// Validate implements validation.Validatable.
func (h HookCreate) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Name, validation.Required),
		validation.Field(&h.Type, validation.Required, validation.In(HookTypeWebhook, HookTypeFunction)),
		validation.Field(&h.Queues, validation.Required),
		validation.Field(&h.Events, validation.Required),
		validation.Field(&h.Config,
			validation.Required,
			validation.When(h.Type == HookTypeWebhook, validation.Map(
				validation.Key("url", validation.Required),
				validation.Key("code", validation.Empty).Optional(),
				validation.Key("runtime", validation.Empty).Optional(),
			).AllowExtraKeys()),
			validation.When(h.Type == HookTypeFunction, validation.Map(
				validation.Key("code", validation.Required),
				validation.Key("runtime", validation.Required),
				validation.Key("url", validation.Empty).Optional(),
				validation.Key("secret", validation.Empty).Optional(),
				validation.Key("insecure_ssl", validation.Nil).Optional(),
			).AllowExtraKeys()),
		),
	)
}

// Upload is the input of UploadDocument. Either FilePath or FileBytes must
// be set; FileBytes needs Filename since bytes carry no name. FilePath wins
// when both are set.
type Upload struct {
	Queue     int            `json:"queue"`
	FilePath  string         `json:"file"`
	FileBytes []byte         `json:"file_bytes"`
	Filename  string         `json:"filename"`
	Values    map[string]any `json:"values"`
	Metadata  map[string]any `json:"metadata"`
}

// Validate implements validation.Validatable.
func (u Upload) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Queue, validation.Required),
		validation.Field(&u.FilePath, validation.When(len(u.FileBytes) == 0,
			validation.Required.Error("no file(s) to be sent"))),
		validation.Field(&u.Filename, validation.When(len(u.FileBytes) > 0,
			validation.Required.Error("a filename is required to name the uploaded bytes"))),
	)
}

// PollConfig bounds PollAnnotation. The budget is MaxRetries x Interval.
type PollConfig struct {
	Interval   time.Duration
	MaxRetries int
	// Observer receives every fetched snapshot.
	Observer func(Record)
}

// WithDefaults fills unset fields.
func (p PollConfig) WithDefaults() PollConfig {
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}

	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultPollMaxRetries
	}

	return p
}

// Budget is the total time polling may take.
func (p PollConfig) Budget() time.Duration {
	return time.Duration(p.MaxRetries) * p.Interval
}

// DeleteTarget is one object removed by a bulk delete.
type DeleteTarget struct {
	ID  string
	URL string
}

// DeleteOptions controls bulk delete reporting.
type DeleteOptions struct {
	// Item labels the objects in messages, "annotation" when empty.
	Item    string
	Verbose int
	// Out receives progress and failure messages.
	Out io.Writer
}
