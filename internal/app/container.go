// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/infra/apiclient"
	"github.com/runoshun/taskboard/internal/infra/config"
	"github.com/runoshun/taskboard/internal/infra/crypto"
	"github.com/runoshun/taskboard/internal/infra/jsonstore"
	"github.com/runoshun/taskboard/internal/infra/logging"
	"github.com/runoshun/taskboard/internal/store"
	"github.com/runoshun/taskboard/internal/usecase"
)

// ErrMissingSessionKey is returned when session encryption is enabled without a key.
var ErrMissingSessionKey = errors.New("session.encrypt is set but " + config.EnvSessionKey + " is empty")

// Config holds the application paths.
type Config struct {
	WorkDir   string // Directory the command was started in
	ConfigDir string // Global config directory (session file, logs)
	Version   string // Reported in the User-Agent header
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks         domain.TaskAPI
	Detail        domain.DetailAPI
	Auth          domain.AuthAPI
	Sessions      domain.SessionStore
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Log           domain.Logger

	// Confirm gates task deletion. The CLI replaces it with a prompt.
	Confirm domain.Confirmer

	// Pointer fields
	State     *domain.SessionState
	Store     *store.Store
	Logger    *slog.Logger
	AppConfig *domain.Config
	closer    io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the given working directory.
func New(dir, version string) (*Container, error) {
	loader := config.NewLoader(dir)
	appConfig, err := loader.Load()
	if err != nil {
		return nil, err
	}

	cfg := Config{
		WorkDir:   dir,
		ConfigDir: loader.GlobalDir(),
		Version:   version,
	}

	fileLogger := logging.New(logging.Options{
		ConfigDir:  cfg.ConfigDir,
		Level:      logging.ParseLevel(appConfig.Log.Level),
		MaxSizeMB:  appConfig.Log.MaxSizeMB,
		MaxBackups: appConfig.Log.MaxBackups,
	})

	var storeOpts []jsonstore.Option
	if appConfig.Session.Encrypt {
		if appConfig.Session.Key == "" {
			return nil, ErrMissingSessionKey
		}
		enc, err := crypto.NewEncryptorFromSecret(appConfig.Session.Key)
		if err != nil {
			return nil, fmt.Errorf("session key: %w", err)
		}
		storeOpts = append(storeOpts, jsonstore.WithCipher(enc))
	}
	sessions := jsonstore.New(domain.SessionPath(cfg.ConfigDir), storeOpts...)

	state := domain.NewSessionState(nil)
	client, err := apiclient.New(apiclient.Options{
		Tokens:   state,
		Logger:   fileLogger,
		BaseURL:  appConfig.API.BaseURL,
		AuthMode: appConfig.API.AuthMode,
		Version:  version,
		Timeout:  appConfig.API.Timeout,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{
		Tasks:         client,
		Detail:        client,
		Auth:          client,
		Sessions:      sessions,
		ConfigLoader:  loader,
		ConfigManager: config.NewManager(dir),
		Clock:         domain.RealClock{},
		Log:           fileLogger,
		Confirm:       domain.AlwaysConfirm,
		State:         state,
		Logger:        slog.New(fileLogger.Handler()),
		AppConfig:     appConfig,
		closer:        fileLogger,
		Config:        cfg,
	}
	c.Store = store.New(client, c.confirmer(), fileLogger)
	return c, nil
}

// Deps are the ports injected by NewWithDeps.
type Deps struct {
	Tasks         domain.TaskAPI
	Detail        domain.DetailAPI
	Auth          domain.AuthAPI
	Sessions      domain.SessionStore
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	Log           domain.Logger
	State         *domain.SessionState // Optional; shared with the API client under test
	AppConfig     *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, deps Deps) *Container {
	if deps.Log == nil {
		deps.Log = domain.NopLogger{}
	}
	if deps.Clock == nil {
		deps.Clock = domain.RealClock{}
	}
	if deps.AppConfig == nil {
		deps.AppConfig = domain.NewDefaultConfig()
	}
	if deps.State == nil {
		deps.State = domain.NewSessionState(nil)
	}
	c := &Container{
		Tasks:         deps.Tasks,
		Detail:        deps.Detail,
		Auth:          deps.Auth,
		Sessions:      deps.Sessions,
		ConfigManager: deps.ConfigManager,
		Clock:         deps.Clock,
		Log:           deps.Log,
		Confirm:       domain.AlwaysConfirm,
		State:         deps.State,
		Logger:        slog.New(slog.DiscardHandler),
		AppConfig:     deps.AppConfig,
		Config:        cfg,
	}
	c.Store = store.New(deps.Tasks, c.confirmer(), deps.Log)
	return c
}

// confirmer defers to whatever Confirm is set to at deletion time.
func (c *Container) confirmer() domain.Confirmer {
	return domain.ConfirmFunc(func(prompt string) bool {
		return c.Confirm.Confirm(prompt)
	})
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.Auth, c.Sessions, c.State, c.Log)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Sessions, c.State, c.Store, c.Log)
}

// CurrentUserUseCase returns a new CurrentUser use case.
func (c *Container) CurrentUserUseCase() *usecase.CurrentUser {
	return usecase.NewCurrentUser(c.Auth, c.State)
}

// RestoreSessionUseCase returns a new RestoreSession use case.
func (c *Container) RestoreSessionUseCase() *usecase.RestoreSession {
	return usecase.NewRestoreSession(c.Sessions, c.State, c.Log)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store, c.State)
}

// SummaryUseCase returns a new Summary use case.
func (c *Container) SummaryUseCase() *usecase.Summary {
	return usecase.NewSummary(c.Store, c.State)
}

// KanbanUseCase returns a new Kanban use case.
func (c *Container) KanbanUseCase() *usecase.Kanban {
	return usecase.NewKanban(c.Store)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Store)
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.Store, c.Log)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks, c.Detail, c.Log)
}

// SaveDescriptionUseCase returns a new SaveDescription use case.
func (c *Container) SaveDescriptionUseCase() *usecase.SaveDescription {
	return usecase.NewSaveDescription(c.Tasks, c.Store, c.Log)
}

// ListAttachmentsUseCase returns a new ListAttachments use case.
func (c *Container) ListAttachmentsUseCase() *usecase.ListAttachments {
	return usecase.NewListAttachments(c.Detail)
}

// UploadAttachmentUseCase returns a new UploadAttachment use case.
func (c *Container) UploadAttachmentUseCase() *usecase.UploadAttachment {
	return usecase.NewUploadAttachment(c.Detail, c.Log)
}

// DownloadAttachmentUseCase returns a new DownloadAttachment use case.
func (c *Container) DownloadAttachmentUseCase() *usecase.DownloadAttachment {
	return usecase.NewDownloadAttachment(c.Detail, c.Log)
}

// ListCommentsUseCase returns a new ListComments use case.
func (c *Container) ListCommentsUseCase() *usecase.ListComments {
	return usecase.NewListComments(c.Detail)
}

// AddCommentUseCase returns a new AddComment use case.
func (c *Container) AddCommentUseCase() *usecase.AddComment {
	return usecase.NewAddComment(c.Detail, c.State, c.Log)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.AppConfig)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
