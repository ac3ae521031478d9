package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"marketplace-service/errs"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/repository"
	"marketplace-service/utils"
)

type registerRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=50"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"omitempty,oneof=admin vendor customer"`
	BusinessName string `json:"business_name"`
}

func Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
		Status:   models.StatusActive,
	}
	user.ID, err = users.Create(c.Request.Context(), user)
	if err != nil {
		if repository.IsDuplicate(err) {
			respondError(c, errs.Conflictf("user already exists with this email"))
			return
		}
		respondError(c, err)
		return
	}

	if user.Role == models.RoleVendor {
		businessName := req.BusinessName
		if businessName == "" {
			businessName = req.Name
		}
		_, err = vendors.Create(c.Request.Context(), models.Vendor{
			UserID:       user.ID,
			BusinessName: businessName,
			Commission:   10,
		})
		if err != nil {
			respondError(c, err)
			return
		}
	}

	token, err := utils.GenerateToken(cfg.JWTSecret, user, tokenTTL())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"token": token, "user": profile(user)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("please provide an email and password"))
		return
	}

	user, err := users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.Unauthenticatedf("invalid credentials"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(c, errs.Unauthenticatedf("invalid credentials"))
		return
	}
	if user.Status == models.StatusInactive {
		respondError(c, errs.Unauthenticatedf("account is inactive"))
		return
	}

	token, err := utils.GenerateToken(cfg.JWTSecret, user, tokenTTL())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"token": token, "user": profile(user)})
}

func Me(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		respondError(c, errs.Unauthenticatedf("not authenticated"))
		return
	}

	payload := gin.H{"user": user}
	if user.Role == models.RoleVendor {
		vendor, err := vendors.GetByUserID(c.Request.Context(), user.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			respondError(c, err)
			return
		}
		if err == nil {
			payload["vendor"] = vendor
		}
	}
	respond(c, http.StatusOK, payload)
}

func tokenTTL() time.Duration {
	return time.Duration(cfg.TokenTTLHours) * time.Hour
}

func profile(user models.User) gin.H {
	return gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
		"status": user.Status,
	}
}
