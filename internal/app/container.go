// Package app wires repositories, handlers, consumers and the outbox
// processor into a single container shared by the entrypoints.
package app

import (
	"context"
	"fmt"
	"log/slog"

	activityConsumers "github.com/felixgeelhaar/taskhive/internal/activity/application/consumers"
	activityQueries "github.com/felixgeelhaar/taskhive/internal/activity/application/queries"
	activityDomain "github.com/felixgeelhaar/taskhive/internal/activity/domain"
	activityPersistence "github.com/felixgeelhaar/taskhive/internal/activity/infrastructure/persistence"
	commentCommands "github.com/felixgeelhaar/taskhive/internal/comments/application/commands"
	commentQueries "github.com/felixgeelhaar/taskhive/internal/comments/application/queries"
	commentsDomain "github.com/felixgeelhaar/taskhive/internal/comments/domain"
	commentPersistence "github.com/felixgeelhaar/taskhive/internal/comments/infrastructure/persistence"
	identityDomain "github.com/felixgeelhaar/taskhive/internal/identity/domain"
	identityPersistence "github.com/felixgeelhaar/taskhive/internal/identity/infrastructure/persistence"
	notificationCommands "github.com/felixgeelhaar/taskhive/internal/notifications/application/commands"
	notificationConsumers "github.com/felixgeelhaar/taskhive/internal/notifications/application/consumers"
	notificationQueries "github.com/felixgeelhaar/taskhive/internal/notifications/application/queries"
	notificationsDomain "github.com/felixgeelhaar/taskhive/internal/notifications/domain"
	notificationPersistence "github.com/felixgeelhaar/taskhive/internal/notifications/infrastructure/persistence"
	reportingQueries "github.com/felixgeelhaar/taskhive/internal/reporting/application/queries"
	reportingPersistence "github.com/felixgeelhaar/taskhive/internal/reporting/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/taskhive/internal/shared/application"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/outbox"
	taskCommands "github.com/felixgeelhaar/taskhive/internal/tasking/application/commands"
	taskQueries "github.com/felixgeelhaar/taskhive/internal/tasking/application/queries"
	taskingDomain "github.com/felixgeelhaar/taskhive/internal/tasking/domain"
	taskPersistence "github.com/felixgeelhaar/taskhive/internal/tasking/infrastructure/persistence"
	templateCommands "github.com/felixgeelhaar/taskhive/internal/templates/application/commands"
	templateQueries "github.com/felixgeelhaar/taskhive/internal/templates/application/queries"
	templatesDomain "github.com/felixgeelhaar/taskhive/internal/templates/domain"
	templatePersistence "github.com/felixgeelhaar/taskhive/internal/templates/infrastructure/persistence"
	timeCommands "github.com/felixgeelhaar/taskhive/internal/timetracking/application/commands"
	timeQueries "github.com/felixgeelhaar/taskhive/internal/timetracking/application/queries"
	timetrackingDomain "github.com/felixgeelhaar/taskhive/internal/timetracking/domain"
	"github.com/felixgeelhaar/taskhive/internal/timetracking/infrastructure/lock"
	timePersistence "github.com/felixgeelhaar/taskhive/internal/timetracking/infrastructure/persistence"
	"github.com/felixgeelhaar/taskhive/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn database.Connection

	// Redis
	RedisClient *redis.Client

	// Repositories
	UserRepo         identityDomain.Repository
	TaskRepo         taskingDomain.Repository
	EntryRepo        timetrackingDomain.Repository
	NotificationRepo notificationsDomain.Repository
	ActivityRepo     activityDomain.Repository
	CommentRepo      commentsDomain.Repository
	TemplateRepo     templatesDomain.Repository
	StatsReader      reportingQueries.StatsReader
	OutboxRepo       outbox.Repository

	// Unit of Work and timer locking
	UnitOfWork sharedApplication.UnitOfWork
	TimerLock  lock.Locker

	// Eventing
	EventBus        *eventbus.InProcessEventBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor
	Dispatcher      *notificationConsumers.Dispatcher
	Recorder        *activityConsumers.Recorder

	// Task command handlers
	CreateTaskHandler       *taskCommands.CreateTaskHandler
	UpdateTaskHandler       *taskCommands.UpdateTaskHandler
	SetStatusHandler        *taskCommands.SetStatusHandler
	ReplaceChecklistHandler *taskCommands.ReplaceChecklistHandler
	AddDependencyHandler    *taskCommands.AddDependencyHandler
	RemoveDependencyHandler *taskCommands.RemoveDependencyHandler
	MarkViewedHandler       *taskCommands.MarkViewedHandler
	DeleteTaskHandler       *taskCommands.DeleteTaskHandler

	// Task query handlers
	ListTasksHandler    *taskQueries.ListTasksHandler
	GetTaskHandler      *taskQueries.GetTaskHandler
	OverdueTasksHandler *taskQueries.OverdueTasksHandler

	// Time tracking command handlers
	StartTimerHandler     *timeCommands.StartTimerHandler
	StopTimerHandler      *timeCommands.StopTimerHandler
	PauseTimerHandler     *timeCommands.PauseTimerHandler
	ResumeTimerHandler    *timeCommands.ResumeTimerHandler
	AddManualEntryHandler *timeCommands.AddManualEntryHandler

	// Time tracking query handlers
	TaskTimeLogHandler *timeQueries.TaskTimeLogHandler
	UserTimeLogHandler *timeQueries.UserTimeLogHandler

	// Notification handlers
	MarkReadHandler           *notificationCommands.MarkReadHandler
	MarkAllReadHandler        *notificationCommands.MarkAllReadHandler
	DeleteNotificationHandler *notificationCommands.DeleteNotificationHandler
	ClearAllHandler           *notificationCommands.ClearAllHandler
	ListNotificationsHandler  *notificationQueries.ListNotificationsHandler

	// Activity query handlers
	TaskActivityHandler   *activityQueries.TaskActivityHandler
	UserActivityHandler   *activityQueries.UserActivityHandler
	RecentActivityHandler *activityQueries.RecentActivityHandler

	// Comment handlers
	AddCommentHandler    *commentCommands.AddCommentHandler
	AddReplyHandler      *commentCommands.AddReplyHandler
	UpdateCommentHandler *commentCommands.UpdateCommentHandler
	DeleteCommentHandler *commentCommands.DeleteCommentHandler
	ToggleLikeHandler    *commentCommands.ToggleLikeHandler
	ListCommentsHandler  *commentQueries.ListCommentsHandler

	// Template handlers
	CreateTemplateHandler         *templateCommands.CreateTemplateHandler
	UpdateTemplateHandler         *templateCommands.UpdateTemplateHandler
	DeleteTemplateHandler         *templateCommands.DeleteTemplateHandler
	CreateTaskFromTemplateHandler *templateCommands.CreateTaskFromTemplateHandler
	ListTemplatesHandler          *templateQueries.ListTemplatesHandler
	GetTemplateHandler            *templateQueries.GetTemplateHandler

	// Reporting handlers
	AdminDashboardHandler *reportingQueries.AdminDashboardHandler
	UserDashboardHandler  *reportingQueries.UserDashboardHandler
}

// NewContainer creates and wires all dependencies. An empty DATABASE_URL
// selects zero-config SQLite mode, which auto-migrates on startup.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DBMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	logger.Info("connected to database", "driver", conn.Driver())

	// SQLite mode is zero-config, so the schema is applied on startup.
	// PostgreSQL deployments run migrations explicitly via the migrate
	// command.
	if conn.Driver() == database.DriverSQLite {
		if err := migrations.Run(ctx, conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Connect to Redis (optional in development)
	c.TimerLock = lock.NewMemoryLocker()
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, timer lock runs in-process", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, timer lock runs in-process", "error", err)
			} else {
				c.RedisClient = redisClient
				c.TimerLock = lock.NewRedisLocker(redisClient, "taskhive:timer")
				logger.Info("connected to Redis")
			}
		}
	}

	// Create repositories
	if conn.Driver() == database.DriverPostgres {
		c.UserRepo = identityPersistence.NewPostgresUserRepository(conn)
		c.TaskRepo = taskPersistence.NewPostgresTaskRepository(conn)
		c.EntryRepo = timePersistence.NewPostgresEntryRepository(conn)
		c.NotificationRepo = notificationPersistence.NewPostgresNotificationRepository(conn)
		c.ActivityRepo = activityPersistence.NewPostgresActivityRepository(conn)
		c.CommentRepo = commentPersistence.NewPostgresCommentRepository(conn)
		c.TemplateRepo = templatePersistence.NewPostgresTemplateRepository(conn)
		c.StatsReader = reportingPersistence.NewPostgresStatsRepository(conn)
		c.OutboxRepo = outbox.NewPostgresRepository(conn)
	} else {
		c.UserRepo = identityPersistence.NewSQLiteUserRepository(conn)
		c.TaskRepo = taskPersistence.NewSQLiteTaskRepository(conn)
		c.EntryRepo = timePersistence.NewSQLiteEntryRepository(conn)
		c.NotificationRepo = notificationPersistence.NewSQLiteNotificationRepository(conn)
		c.ActivityRepo = activityPersistence.NewSQLiteActivityRepository(conn)
		c.CommentRepo = commentPersistence.NewSQLiteCommentRepository(conn)
		c.TemplateRepo = templatePersistence.NewSQLiteTemplateRepository(conn)
		c.StatsReader = reportingPersistence.NewSQLiteStatsRepository(conn)
		c.OutboxRepo = outbox.NewSQLiteRepository(conn)
	}
	c.UnitOfWork = database.NewUnitOfWork(conn)

	// Create projection consumers and register them on the in-process bus
	c.EventBus = eventbus.NewInProcessEventBus(logger)
	c.Dispatcher = notificationConsumers.NewDispatcher(c.NotificationRepo, &adminDirectory{users: c.UserRepo}, logger)
	c.Recorder = activityConsumers.NewRecorder(c.ActivityRepo, logger)
	c.EventBus.RegisterConsumer(c.Dispatcher)
	c.EventBus.RegisterConsumer(c.Recorder)

	// Create event publisher. Events always fan out in-process; with
	// RabbitMQ configured they are additionally relayed to the broker
	// behind a circuit breaker.
	local := &busPublisher{bus: c.EventBus}
	c.EventPublisher = local
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, events stay in-process", "error", err)
		} else {
			c.EventPublisher = &relayPublisher{local: local, broker: eventbus.NewBreakerPublisher(rabbit, logger)}
			logger.Info("connected to RabbitMQ")
		}
	}

	// Create outbox processor
	processorConfig := outbox.DefaultProcessorConfig()
	processorConfig.PollInterval = cfg.OutboxPollInterval
	processorConfig.BatchSize = cfg.OutboxBatchSize
	processorConfig.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger)

	tasks := &taskDirectory{tasks: c.TaskRepo}

	// Create task command handlers
	c.CreateTaskHandler = taskCommands.NewCreateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateTaskHandler = taskCommands.NewUpdateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.SetStatusHandler = taskCommands.NewSetStatusHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ReplaceChecklistHandler = taskCommands.NewReplaceChecklistHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.AddDependencyHandler = taskCommands.NewAddDependencyHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.RemoveDependencyHandler = taskCommands.NewRemoveDependencyHandler(c.TaskRepo, c.UnitOfWork)
	c.MarkViewedHandler = taskCommands.NewMarkViewedHandler(c.TaskRepo, c.UnitOfWork)
	c.DeleteTaskHandler = taskCommands.NewDeleteTaskHandler(c.TaskRepo, c.CommentRepo, c.OutboxRepo, c.UnitOfWork)

	// Create task query handlers
	c.ListTasksHandler = taskQueries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = taskQueries.NewGetTaskHandler(c.TaskRepo)
	c.OverdueTasksHandler = taskQueries.NewOverdueTasksHandler(c.TaskRepo)

	// Create time tracking handlers
	c.StartTimerHandler = timeCommands.NewStartTimerHandler(c.EntryRepo, tasks, c.OutboxRepo, c.UnitOfWork, c.TimerLock)
	c.StopTimerHandler = timeCommands.NewStopTimerHandler(c.EntryRepo, tasks, c.OutboxRepo, c.UnitOfWork)
	c.PauseTimerHandler = timeCommands.NewPauseTimerHandler(c.EntryRepo, c.UnitOfWork)
	c.ResumeTimerHandler = timeCommands.NewResumeTimerHandler(c.EntryRepo, c.UnitOfWork)
	c.AddManualEntryHandler = timeCommands.NewAddManualEntryHandler(c.EntryRepo, tasks, c.OutboxRepo, c.UnitOfWork)
	c.TaskTimeLogHandler = timeQueries.NewTaskTimeLogHandler(c.EntryRepo)
	c.UserTimeLogHandler = timeQueries.NewUserTimeLogHandler(c.EntryRepo)

	// Create notification handlers
	c.MarkReadHandler = notificationCommands.NewMarkReadHandler(c.NotificationRepo, c.UnitOfWork)
	c.MarkAllReadHandler = notificationCommands.NewMarkAllReadHandler(c.NotificationRepo)
	c.DeleteNotificationHandler = notificationCommands.NewDeleteNotificationHandler(c.NotificationRepo, c.UnitOfWork)
	c.ClearAllHandler = notificationCommands.NewClearAllHandler(c.NotificationRepo)
	c.ListNotificationsHandler = notificationQueries.NewListNotificationsHandler(c.NotificationRepo)

	// Create activity query handlers
	c.TaskActivityHandler = activityQueries.NewTaskActivityHandler(c.ActivityRepo)
	c.UserActivityHandler = activityQueries.NewUserActivityHandler(c.ActivityRepo)
	c.RecentActivityHandler = activityQueries.NewRecentActivityHandler(c.ActivityRepo)

	// Create comment handlers
	c.AddCommentHandler = commentCommands.NewAddCommentHandler(c.CommentRepo, tasks, c.OutboxRepo, c.UnitOfWork)
	c.AddReplyHandler = commentCommands.NewAddReplyHandler(c.CommentRepo, c.UnitOfWork)
	c.UpdateCommentHandler = commentCommands.NewUpdateCommentHandler(c.CommentRepo, c.UnitOfWork)
	c.DeleteCommentHandler = commentCommands.NewDeleteCommentHandler(c.CommentRepo, c.OutboxRepo, c.UnitOfWork)
	c.ToggleLikeHandler = commentCommands.NewToggleLikeHandler(c.CommentRepo, c.UnitOfWork)
	c.ListCommentsHandler = commentQueries.NewListCommentsHandler(c.CommentRepo)

	// Create template handlers
	c.CreateTemplateHandler = templateCommands.NewCreateTemplateHandler(c.TemplateRepo, c.UnitOfWork)
	c.UpdateTemplateHandler = templateCommands.NewUpdateTemplateHandler(c.TemplateRepo, c.UnitOfWork)
	c.DeleteTemplateHandler = templateCommands.NewDeleteTemplateHandler(c.TemplateRepo, c.UnitOfWork)
	c.CreateTaskFromTemplateHandler = templateCommands.NewCreateTaskFromTemplateHandler(c.TemplateRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork)
	c.ListTemplatesHandler = templateQueries.NewListTemplatesHandler(c.TemplateRepo)
	c.GetTemplateHandler = templateQueries.NewGetTemplateHandler(c.TemplateRepo)

	// Create reporting handlers
	c.AdminDashboardHandler = reportingQueries.NewAdminDashboardHandler(c.StatsReader)
	c.UserDashboardHandler = reportingQueries.NewUserDashboardHandler(c.StatsReader)

	return c, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
