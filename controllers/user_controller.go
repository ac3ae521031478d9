package controllers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-service/errs"
	"marketplace-service/middlewares"
	"marketplace-service/models"
	"marketplace-service/repository"
)

// User administration endpoints. Routing restricts all of these to admins.

func GetUsers(c *gin.Context) {
	page, limit := pageQuery(c)
	list, total, err := users.List(c.Request.Context(), repository.UserFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	respond(c, http.StatusOK, gin.H{
		"count": len(list),
		"total": total,
		"page":  page,
		"pages": totalPages(total, limit),
		"users": list,
	})
}

func GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := users.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.NotFoundf("user not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

type updateUserRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=50"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Role   *string `json:"role" binding:"omitempty,oneof=admin vendor customer"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func UpdateUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errs.Validationf("%s", err.Error()))
		return
	}

	user, err := users.GetByID(c.Request.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, errs.NotFoundf("user not found"))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := users.Update(c.Request.Context(), user); err != nil {
		if repository.IsDuplicate(err) {
			respondError(c, errs.Conflictf("user already exists with this email"))
			return
		}
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

func DeleteUser(c *gin.Context) {
	actor, _ := middlewares.CurrentUser(c)

	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if id == actor.ID {
		respondError(c, errs.Validationf("cannot delete your own account"))
		return
	}

	deleted, err := users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		respondError(c, errs.NotFoundf("user not found"))
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "user deleted successfully"})
}
