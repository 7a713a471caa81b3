package rossum

import (
	"context"
	"time"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config holds the resolved connection settings of a client.
type Config struct {
	// URL is the service root, e.g. https://api.elis.rossum.ai. Trailing
	// slashes are stripped and "/v1" is appended unless SkipAPIVersion is set.
	URL string
	// SkipAPIVersion: URL already carries the API version.
	SkipAPIVersion bool
	// Username and Password are used for login, or for every request when
	// BasicAuth is set.
	Username string
	Password string
	// Token: an already issued session token. No login is performed.
	Token string
	// BasicAuth sends HTTP basic credentials instead of a session token.
	BasicAuth bool
	// MaxTokenLifetime requests a shorter session lifetime at login.
	MaxTokenLifetime time.Duration

	// RetryAttempts: total attempts for transient connection failures.
	RetryAttempts int
	// RetryWait: fixed wait between attempts.
	RetryWait time.Duration
	// RetryDeadline: no new attempt starts after this much time has passed.
	RetryDeadline time.Duration

	// HTTPTimeout: per request timeout, none when zero.
	HTTPTimeout time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}

// SessionClient manages the authenticated session.
type SessionClient interface {
	// BaseURL returns the versioned API root requests are made against.
	BaseURL() string
	// Logout ends the session. It is a no-op when no session was opened.
	Logout(ctx context.Context) error
	// Close ends the client's scope. Call it on every exit path.
	Close(ctx context.Context) error
}

// RawClient exposes generic access to any collection.
type RawClient interface {
	Get(ctx context.Context, path string, query Query) (Record, error)
	Patch(ctx context.Context, path string, body any) (Record, error)
	FetchAll(ctx context.Context, path string, query Query, opts ListOptions) ([]Record, int, error)
	SetMetadata(ctx context.Context, object APIObject, id int, metadata map[string]any) (Record, error)
	// Delete removes every target. API errors are reported to opts.Out and
	// skipped; any other error aborts the batch.
	Delete(ctx context.Context, targets []DeleteTarget, opts DeleteOptions) error
}

// OrganizationClient covers organizations, workspaces and users.
//
// Operations taking an id treat 0 as "not given". Get operations then resolve
// the only existing object, and fail with a ValidationError when there is not
// exactly one.
type OrganizationClient interface {
	GetOrganization(ctx context.Context, id int) (Record, error)
	ListWorkspaces(ctx context.Context, organization int, sideloads ...Sideload) ([]Record, error)
	GetWorkspace(ctx context.Context, id int, sideloads ...Sideload) (Record, error)
	CreateWorkspace(ctx context.Context, req WorkspaceCreate) (Record, error)
	ListUsers(ctx context.Context, filter UserFilter, sideloads ...Sideload) ([]Record, error)
	GetUser(ctx context.Context, id int) (Record, error)
	CreateUser(ctx context.Context, req UserCreate) (Record, error)
	ListGroups(ctx context.Context, name string) ([]Record, error)
	ChangePassword(ctx context.Context, newPassword string) (Record, error)
	ResetPassword(ctx context.Context, email string) (Record, error)
}

// QueueClient covers queues and the objects configured on them.
type QueueClient interface {
	ListQueues(ctx context.Context, filter QueueFilter, sideloads ...Sideload) ([]Record, error)
	GetQueue(ctx context.Context, id int, sideloads ...Sideload) (Record, error)
	CreateQueue(ctx context.Context, req QueueCreate) (Record, error)
	ListSchemas(ctx context.Context, sideloads ...Sideload) ([]Record, error)
	CreateSchema(ctx context.Context, name string, content []any) (Record, error)
	CreateInbox(ctx context.Context, req InboxCreate) (Record, error)
	ListConnectors(ctx context.Context, sideloads ...Sideload) ([]Record, error)
	CreateConnector(ctx context.Context, req ConnectorCreate) (Record, error)
	ListHooks(ctx context.Context, query Query, sideloads ...Sideload) ([]Record, error)
	CreateHook(ctx context.Context, req HookCreate) (Record, error)
	UpdateHook(ctx context.Context, id int, changes Record) (Record, error)
	UploadDocument(ctx context.Context, req Upload) (Record, error)
	ExportData(ctx context.Context, queue int, annotations []int, format string) ([]byte, error)
}

// AnnotationClient covers annotations.
type AnnotationClient interface {
	GetAnnotation(ctx context.Context, id int) (Record, error)
	ListAnnotations(ctx context.Context, filter AnnotationFilter) ([]Record, error)
	// PollAnnotation fetches the annotation every cfg.Interval until check
	// holds, failing with ErrPollTimeout once the budget is spent.
	PollAnnotation(ctx context.Context, id int, check func(Record) bool, cfg PollConfig) (Record, error)
}

// Client is the full API client. A Client is meant for one goroutine at a
// time; only token acquisition is synchronized.
type Client interface {
	SessionClient
	RawClient
	OrganizationClient
	QueueClient
	AnnotationClient
}
