package accounts

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the account lifecycle endpoints.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Register, controller.RegisterPost).
		SetName("auth.register")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.
		Get(fmt.Sprintf("%s/:token", controller.Routes.Activate), controller.ActivateGet).
		SetName("auth.activate")

	app.
		Post(controller.Routes.ForgotPassword, controller.ForgotPasswordPost).
		SetName("auth.forgot-password")

	app.
		Post(fmt.Sprintf("%s/:token", controller.Routes.ResetPassword), controller.ResetPasswordPost).
		SetName("auth.reset-password")
}

type AuthControllerRoutes struct {
	Register       string
	Login          string
	Activate       string
	ForgotPassword string
	ResetPassword  string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Lifecycle    *Lifecycle
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: RenderError,
		Routes: &AuthControllerRoutes{
			Register:       "/auth/register",
			Login:          "/auth/login",
			Activate:       "/auth/activate",
			ForgotPassword: "/auth/forgot-password",
			ResetPassword:  "/auth/reset-password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Lifecycle == nil {
		panic("Missing Lifecycle in auth controller...")
	}

	return c
}

func WithControllerLifecycle(l *Lifecycle) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Lifecycle = l
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error":      ErrorResponse{Message: "invalid payload"},
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	account, err := a.Lifecycle.Register(ctx.Context(), RegisterMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("register error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, map[string]any{
		"account": account,
	})
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error":      ErrorResponse{Message: "invalid payload"},
			"validation": FormatValidationErrorToMap(err),
		})
	}

	token, account, err := a.Lifecycle.Login(ctx.Context(), LoginMessage{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"token":   token,
		"account": account,
	})
}

func (a *AuthController) ActivateGet(ctx router.Context) error {
	token := ctx.Param("token", "")
	if token == "" {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "missing activation token"},
		})
	}

	account, err := a.Lifecycle.Activate(ctx.Context(), token)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"account": account,
	})
}

// ForgotPasswordPayload holds the reset request email.
type ForgotPasswordPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ForgotPasswordPost(ctx router.Context) error {
	payload := new(ForgotPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("forgot password parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error":      ErrorResponse{Message: "invalid payload"},
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if err := a.Lifecycle.RequestPasswordReset(ctx.Context(), payload.Email); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	// Constant response shape whether or not the email is registered.
	return ctx.JSON(fiber.StatusOK, map[string]any{
		"message": "if the email is registered you will receive a reset link",
	})
}

// ResetPasswordPayload carries the replacement password.
type ResetPasswordPayload struct {
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) ResetPasswordPost(ctx router.Context) error {
	token := ctx.Param("token", "")
	if token == "" {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "missing reset token"},
		})
	}

	payload := new(ResetPasswordPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("reset password parse payload: %v", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error": ErrorResponse{Message: "failed to parse request body"},
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"error":      ErrorResponse{Message: "invalid payload"},
			"validation": FormatValidationErrorToMap(err),
		})
	}

	account, err := a.Lifecycle.ResetPassword(ctx.Context(), token, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"account": account,
	})
}
