package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// RegisterProfileRoutes mounts the authenticated profile endpoints behind
// the given protection middleware, usually Gatekeeper.ProtectedRoute.
func RegisterProfileRoutes[T any](app router.Router[T], protect router.MiddlewareFunc, opts ...ProfileControllerOption) {

	controller := NewProfileController(opts...)

	app.
		Get(controller.Routes.Profile, protect(controller.ProfileGet)).
		SetName("users.profile.get")

	app.
		Put(controller.Routes.Profile, protect(controller.ProfilePut)).
		SetName("users.profile.put")
}

type ProfileControllerRoutes struct {
	Profile string
}

type ProfileController struct {
	Logger       Logger
	Lifecycle    *Lifecycle
	Routes       *ProfileControllerRoutes
	ErrorHandler router.ErrorHandler
}

type ProfileControllerOption func(*ProfileController) *ProfileController

func NewProfileController(opts ...ProfileControllerOption) *ProfileController {
	c := &ProfileController{
		Logger:       defLogger{},
		ErrorHandler: RenderError,
		Routes: &ProfileControllerRoutes{
			Profile: "/users/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Lifecycle == nil {
		panic("Missing Lifecycle in profile controller...")
	}

	return c
}

func WithProfileLifecycle(l *Lifecycle) ProfileControllerOption {
	return func(c *ProfileController) *ProfileController {
		c.Lifecycle = l
		return c
	}
}

func WithProfileLogger(logger Logger) ProfileControllerOption {
	return func(c *ProfileController) *ProfileController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func (p *ProfileController) ProfileGet(ctx router.Context) error {
	identity, ok := IdentityFromContext(ctx.Context())
	if !ok {
		return p.ErrorHandler(ctx, ErrTokenInvalid)
	}

	account, err := p.Lifecycle.GetProfile(ctx.Context(), identity.AccountID)
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"account": account,
	})
}

// ProfileUpdatePayload carries the mutable profile fields. Email and
// password live behind their own flows and are not accepted here.
type ProfileUpdatePayload struct {
	Name            string `form:"name" json:"name"`
	ProfileImageURL string `form:"profile_image_url" json:"profile_image_url"`
}

// Validate will run validation rules
func (r ProfileUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.ProfileImageURL, is.URL),
	)
}

func (p *ProfileController) ProfilePut(ctx router.Context) error {
	identity, ok := IdentityFromContext(ctx.Context())
	if !ok {
		return p.ErrorHandler(ctx, ErrTokenInvalid)
	}

	payload := new(ProfileUpdatePayload)

	if err := ctx.Bind(payload); err != nil {
		p.Logger.Error("profile update parse payload: %v", err)
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

	account, err := p.Lifecycle.UpdateProfile(ctx.Context(), identity.AccountID, UpdateProfileMessage{
		Name:            payload.Name,
		ProfileImageURL: payload.ProfileImageURL,
	})
	if err != nil {
		return p.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"account": account,
	})
}
