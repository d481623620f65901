package infra

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/paymentchain/customers/internal/cache"
	"github.com/paymentchain/customers/internal/config"
	"github.com/paymentchain/customers/internal/handlers"
	"github.com/paymentchain/customers/internal/remote"
	"github.com/paymentchain/customers/internal/repository"
	"github.com/paymentchain/customers/internal/service"
	"github.com/paymentchain/customers/internal/validation"
	"github.com/paymentchain/customers/pkg/db/transactor"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
)

// Router wires all application components and registers API routes.
// v1 customers are served from postgresql, v2 from mongodb, both share the
// same enrichment and creation validation against the remote services.
func Router(pgPool *pgxpool.Pool, mongoClient *mongo.Client, redisClient *redis.Client, cfg config.Config) (*echo.Echo, error) {
	e := echo.New()
	e.HTTPErrorHandler = handlers.ProblemDetailsErrorHandler()

	// Payload validation
	vld := validator.New()
	trans, err := buildTranslator(vld)
	if err != nil {
		return nil, err
	}
	e.Validator = validation.Echo(vld, trans)

	// Transactors
	trx := transactor.NewPgxTransactor(pgPool)
	ex := transactor.NewPgxWithinTransactionExecutor(pgPool)

	// Remote lookups
	productLookup := remote.NewHTTPProductLookup(cfg.RemoteCfg.ProductBaseURL, cfg.RemoteCfg.LookupTimeout)
	transactionLookup := remote.NewHTTPTransactionLookup(cfg.RemoteCfg.TransactionBaseURL, cfg.RemoteCfg.LookupTimeout)

	// Orchestration
	enricher := service.NewCustomerEnricher(productLookup, transactionLookup)
	creationValidator := service.NewCreationValidator(productLookup)

	// Cache
	custCache := cache.NewRedisCustomerCacheRepository(redisClient)

	// Repositories
	pgCustRepo := repository.NewPostgresCustomerRepository(trx, ex)
	mongoCustRepo := repository.NewMongoCustomerRepository(mongoClient)

	// Services
	custSvcV1 := service.NewCustomerService(pgCustRepo, custCache, enricher, creationValidator)
	custSvcV2 := service.NewCustomerService(mongoCustRepo, custCache, enricher, creationValidator)

	// Handlers
	custHandlerV1 := handlers.NewCustomerHandler(custSvcV1)
	custHandlerV2 := handlers.NewCustomerHandler(custSvcV2)

	// Swagger
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API routes
	api := e.Group("/api")

	customersAPIV1 := api.Group("/v1/customers")
	registerCustomerRoutes(customersAPIV1, custHandlerV1)

	customersAPIV2 := api.Group("/v2/customers")
	registerCustomerRoutes(customersAPIV2, custHandlerV2)

	return e, nil
}

func registerCustomerRoutes(g *echo.Group, h *handlers.CustomerHandler) {
	g.GET("", h.GetAll)
	g.GET("/full", h.GetFull)
	g.GET("/:id", h.Get)
	g.POST("", h.Post)
	g.PUT("/:id", h.Put)
	g.DELETE("/:id", h.DeleteByID)
}

func buildTranslator(vld *validator.Validate) (ut.Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	trans, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("failed to find en translator")
	}

	if err := entranslations.RegisterDefaultTranslations(vld, trans); err != nil {
		return nil, err
	}
	return trans, nil
}
