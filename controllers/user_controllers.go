package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// Login checks credentials and returns a JWT carrying business and roles.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := uc.Users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, user.BusinessID, user.Roles)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("could not issue token"))
		return
	}

	utils.InfoLogger.Printf("User logged in: %s (business=%s)", user.Email, user.BusinessID)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":       token,
		"user_id":     user.ID,
		"name":        user.Name,
		"business_id": user.BusinessID,
		"roles":       user.Roles,
	})
}

func (uc *UserController) Logout(c *gin.Context) {
	utils.BlacklistToken(c.GetString(middlewares.ContextToken))
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// CreateUser adds a staff account to the caller's business.
func (uc *UserController) CreateUser(c *gin.Context) {
	var input services.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	who := currentCaller(c)
	user, err := uc.Users.CreateStaff(c.Request.Context(), who.BusinessID, who.UserID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}
