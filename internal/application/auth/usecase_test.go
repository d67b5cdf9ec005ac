package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Kardex-api/pkg/jwt"
)

const authTestSecret = "auth-test-secret"

func newAuthFixture(t *testing.T) (*auth.AuthUseCase, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	company := &entity.Company{ID: uuid.New().String(), Name: "ACME SAS", NIT: "900123456-7", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, memory.NewCompanyRepository(store).Create(company))

	uc := auth.NewAuthUseCase(
		memory.NewUserRepository(store),
		memory.NewCompanyRepository(store),
		auth.JWTConfig{Secret: authTestSecret, ExpMinutes: 60, Issuer: "kardex-api-test"},
	)
	return uc, store, company.ID
}

func TestRegisterUser_HasheaYAsignaRolPorDefecto(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	user, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID,
		Email:     "ana@acme.co",
		Password:  "secreta123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@acme.co", user.Email)
	assert.Equal(t, entity.RoleVendedor, user.Role, "sin rol explícito se asigna vendedor")
	assert.Equal(t, "active", user.Status)
	assert.Equal(t, "ana@acme.co", user.Name, "sin nombre se usa el email")
}

func TestRegisterUser_EmailDuplicadoEnLaMismaEmpresa(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)
	req := dto.RegisterRequest{CompanyID: companyID, Email: "ana@acme.co", Password: "secreta123"}

	_, err := uc.RegisterUser(req)
	require.NoError(t, err)
	_, err = uc.RegisterUser(req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: uuid.New().String(),
		Email:     "ana@acme.co",
		Password:  "secreta123",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterUser_CamposObligatorios(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@acme.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "password es obligatorio")

	_, err = uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "email es obligatorio")
}

func TestLogin_DevuelveTokenConClaims(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)
	registered, err := uc.RegisterUser(dto.RegisterRequest{
		CompanyID: companyID,
		Email:     "ana@acme.co",
		Password:  "secreta123",
		Role:      entity.RoleAdmin,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "secreta123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := pkgjwt.Parse(authTestSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _, companyID := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@acme.co", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@acme.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store, companyID := newAuthFixture(t)
	registered, err := uc.RegisterUser(dto.RegisterRequest{CompanyID: companyID, Email: "ana@acme.co", Password: "secreta123"})
	require.NoError(t, err)

	userRepo := memory.NewUserRepository(store)
	user, err := userRepo.GetByID(registered.ID)
	require.NoError(t, err)
	user.Status = "disabled"
	require.NoError(t, userRepo.Create(user)) // upsert en memoria

	_, err = uc.Login(dto.LoginRequest{Email: "ana@acme.co", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
