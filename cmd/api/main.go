package main

import (
	"log"
	"time"

	"deliverus/internal/config"
	"deliverus/internal/domain/model"
	"deliverus/internal/handler"
	"deliverus/internal/infra/db"
	infraRepo "deliverus/internal/infra/repository"
	"deliverus/internal/server"
	"deliverus/internal/usecase"
	auth "deliverus/internal/usecase/auth_usecase"
	"deliverus/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 12 * time.Hour,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envはあれば読む（本番は環境変数だけで動く）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RestaurantCategory{},
		&model.Restaurant{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewRestaurantCategoryGormRepository(gormDB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)

	orderValidator := validator.NewOrderValidator(productRepo, restaurantRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, restaurantRepo, orderValidator)
	ownerOrderUC := usecase.NewRestaurantOrderUsecase(orderRepo, orderItemRepo, restaurantRepo, auditRepo)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo, productRepo, orderRepo, categoryRepo)
	categoryUC := usecase.NewRestaurantCategoryUsecase(categoryRepo)
	productUC := usecase.NewProductUsecase(productRepo, restaurantRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:       handler.NewAuthHandler(registerUC, loginUC),
		Restaurant: handler.NewRestaurantHandler(restaurantUC),
		Category:   handler.NewRestaurantCategoryHandler(categoryUC),
		Product:    handler.NewProductHandler(productUC),
		Order:      handler.NewOrderHandler(orderUC, ownerOrderUC),
	}

	//Server起動
	e := server.New(cfg, handlers)

	addr := ":" + cfg.Port
	if cfg.Port[0] == ':' {
		addr = cfg.Port
	}
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
