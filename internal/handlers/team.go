package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/models"
	"sals-backend/internal/repository"
)

func ListTeam(team *repository.Team) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /team"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := team.List(ctx)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func CreateTeamMember(team *repository.Team) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /team"
		defer handlePanic(c, route)

		var member models.TeamMember
		if err := bindOptionalJSON(c, &member); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		created, err := team.Create(ctx, member)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "member": created})
	}
}

func UpdateTeamMember(team *repository.Team) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /team/:id"
		defer handlePanic(c, route)

		var patch models.TeamMemberPatch
		if err := bindOptionalJSON(c, &patch); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		member, err := team.Update(ctx, c.Param("id"), patch)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "member": member})
	}
}

func DeleteTeamMember(team *repository.Team) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /team/:id"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := team.Delete(ctx, c.Param("id")); err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
