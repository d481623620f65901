package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/gommon/log"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/paymentchain/customers/internal/model"
	"github.com/paymentchain/customers/pkg/db/transactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectionTimeout = 3 * time.Second
)

const (
	pgContainerName = "pg-test-customers"
	pgPort          = "5432"
	pgTestUser      = "test"
	pgTestPassword  = "test"
	pgTestDB        = "customers"
)

const (
	mongoContainerName = "mongo-test-customers"
	mongoPort          = "27017"
	mongoTestUser      = "test"
	mongoTestPassword  = "test"
)

var pgPool *pgxpool.Pool
var mongoClient *mongo.Client

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("failed to create pool - %v", err)
	}

	if err := dockerPool.Client.Ping(); err != nil {
		log.Fatalf("failed to connect to docker - %v", err)
	}

	// create network for containers
	network, err := dockerPool.Client.CreateNetwork(docker.CreateNetworkOptions{Name: "customers-test-net"})
	if err != nil {
		log.Fatalf("failed to create network - %v", err)
	}

	// start postgres
	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "latest",
		NetworkID:  network.ID,
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", pgPort)}},
		},
	})
	if err != nil {
		log.Fatalf("failed to start postgresql - %v", err)
	}

	// run migrations
	flywayCmd := []string{
		fmt.Sprintf("-url=jdbc:postgresql://%s:%s/%s", pgContainerName, pgPort, pgTestDB),
		fmt.Sprintf("-user=%s", pgTestUser),
		fmt.Sprintf("-password=%s", pgTestPassword),
		"-connectRetries=5",
		"migrate",
	}

	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		log.Fatalf("failed to find migrations path - %v", err)
	}

	flywayMounts := []string{
		fmt.Sprintf("%s:/flyway/sql", migrationsPath),
	}

	flyway, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "flyway/flyway",
		Tag:        "latest",
		NetworkID:  network.ID,
		Cmd:        flywayCmd,
		Mounts:     flywayMounts,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		log.Fatalf("failed to start flyway migrations - %v", err)
	}

	// waiting for flyway container to be destroyed
	err = dockerPool.Retry(func() error {
		if _, ok := dockerPool.ContainerByName(flyway.Container.Name); ok {
			return errors.New("flyway migrations are still in progress")
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to await flyway migrations - %v", err)
	}

	// connect to postgres
	pgUri := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgTestUser, pgTestPassword, pgPort, pgTestDB)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgUri)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		log.Fatalf("failed to establish connection to postgresql - %v", err)
	}

	// start mongo
	mongodb, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       mongoContainerName,
		Repository: "mongo",
		Tag:        "latest",
		NetworkID:  network.ID,
		Env: []string{
			fmt.Sprintf("MONGO_INITDB_ROOT_USERNAME=%s", mongoTestUser),
			fmt.Sprintf("MONGO_INITDB_ROOT_PASSWORD=%s", mongoTestPassword),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"27017/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", mongoPort)}},
		},
	})
	if err != nil {
		log.Fatalf("failed to start mongodb - %v", err)
	}

	// connect to mongo
	mongoUri := fmt.Sprintf("mongodb://%s:%s@localhost:%s/?maxPoolSize=100", mongoTestUser, mongoTestPassword, mongoPort)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoUri))
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		log.Fatalf("failed to establish connection to mongodb - %v", err)
	}

	// start tests
	code := m.Run()

	// purge postgresql
	if err := dockerPool.Purge(postgres); err != nil {
		log.Fatalf("failed to purge postgresql - %v", err)
	}

	// purge mongodb
	if err := dockerPool.Purge(mongodb); err != nil {
		log.Fatalf("failed to purge mongodb - %v", err)
	}

	// remove network
	if err := dockerPool.Client.RemoveNetwork(network.ID); err != nil {
		log.Fatalf("failed to remove network - %v", err)
	}

	os.Exit(code)
}

func testCustomer(id, code string, productIDs ...int64) *model.Customer {
	products := make([]model.Product, 0, len(productIDs))
	for _, pid := range productIDs {
		products = append(products, model.Product{ProductID: pid})
	}

	return &model.Customer{
		ID:       id,
		Code:     code,
		Name:     "John",
		Surname:  "Walls",
		Address:  "1 Main Street",
		Phone:    "+34600000001",
		Iban:     "ES9820385778983000760236",
		Products: products,
	}
}

func TestPostgresCustomerRps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	custRps := NewPostgresCustomerRepository(
		transactor.NewPgxTransactor(pgPool),
		transactor.NewPgxWithinTransactionExecutor(pgPool),
	)

	c := testCustomer("f9771714-df35-4186-b1f1-57fba3e5d3f2", "CUST001", 101, 102, 103)

	t.Log("create customer with product references")
	{
		err := custRps.Create(ctx, c)
		require.NoError(t, err, "failed to create customer")
	}

	t.Log("find customer by id")
	{
		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.NotNil(t, dbCust, "customer was created recently but not found by id")
		assert.Equal(t, c.Code, dbCust.Code)
		assert.Equal(t, c.Iban, dbCust.Iban)
	}

	t.Log("find customer by business code preserves reference order")
	{
		dbCust, err := custRps.FindByCode(ctx, c.Code)
		require.NoError(t, err, "failed to read customer by code")
		require.NotNil(t, dbCust, "customer was created recently but not found by code")
		require.Len(t, dbCust.Products, 3)
		assert.Equal(t, int64(101), dbCust.Products[0].ProductID)
		assert.Equal(t, int64(102), dbCust.Products[1].ProductID)
		assert.Equal(t, int64(103), dbCust.Products[2].ProductID)
		assert.Nil(t, dbCust.Products[0].ProductName, "product names are never persisted")
	}

	t.Log("find unknown customer")
	{
		dbCust, err := custRps.FindByCode(ctx, "UNKNOWN")
		require.NoError(t, err, "no error must be raised for missing customer")
		assert.Nil(t, dbCust)
	}

	t.Log("update customer")
	{
		c.Name = "Johnny"
		c.Phone = "+34600000002"
		err := custRps.Update(ctx, c)
		require.NoError(t, err, "failed to update customer")

		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, dbCust)
		assert.Equal(t, "Johnny", dbCust.Name)
		assert.Equal(t, "+34600000002", dbCust.Phone)
	}

	t.Log("find all customers")
	{
		customers, err := custRps.FindAll(ctx)
		require.NoError(t, err, "failed to read all customers")
		require.Len(t, customers, 1)
		assert.Len(t, customers[0].Products, 3)
	}

	t.Log("delete customer removes its product references")
	{
		err := custRps.DeleteByID(ctx, c.ID)
		require.NoError(t, err, "failed to delete customer")

		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, dbCust, "customer must be deleted")

		var count int
		err = pgPool.QueryRow(ctx, "SELECT COUNT(*) FROM customer_products WHERE customer_id = $1", c.ID).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "product references must be deleted with their owner")
	}
}

func TestPostgresCustomerRpsCreateRollback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	custRps := NewPostgresCustomerRepository(
		transactor.NewPgxTransactor(pgPool),
		transactor.NewPgxWithinTransactionExecutor(pgPool),
	)

	// duplicated product id violates the references primary key
	c := testCustomer("0c36ba1e-55b9-4a49-9b54-aba24c2a55a3", "CUST002", 101, 101)

	t.Log("failed reference insert rolls back the whole creation")
	{
		err := custRps.Create(ctx, c)
		require.Error(t, err, "duplicate reference must fail creation")

		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, dbCust, "customer row must not survive the rollback")
	}
}

func TestMongoCustomerRps(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	custRps := NewMongoCustomerRepository(mongoClient)

	c := testCustomer("9c27cd03-23ce-4d54-abc8-ad6f6c46bfc2", "CUST003", 201)

	t.Log("create customer")
	{
		err := custRps.Create(ctx, c)
		require.NoError(t, err, "failed to create customer")
	}

	t.Log("find customer by id")
	{
		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.NotNil(t, dbCust, "customer was created recently but not found by id")
		require.Len(t, dbCust.Products, 1)
		assert.Equal(t, int64(201), dbCust.Products[0].ProductID)
	}

	t.Log("find customer by business code")
	{
		dbCust, err := custRps.FindByCode(ctx, c.Code)
		require.NoError(t, err, "failed to read customer by code")
		require.NotNil(t, dbCust)
	}

	t.Log("update customer")
	{
		c.Name = "Johnny"
		err := custRps.Update(ctx, c)
		require.NoError(t, err, "failed to update customer")

		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, dbCust)
		assert.Equal(t, "Johnny", dbCust.Name)
	}

	t.Log("delete customer")
	{
		err := custRps.DeleteByID(ctx, c.ID)
		require.NoError(t, err, "failed to delete customer")

		dbCust, err := custRps.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, dbCust, "customer must be deleted")
	}
}
