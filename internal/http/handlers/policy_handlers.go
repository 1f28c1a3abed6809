package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/storefront/domain"
)

type PolicyHandlers struct {
	policies domain.PolicyService
}

func NewPolicyHandlers(policies domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policies: policies}
}

type policyReq struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policies.GetPolicies()
	if err != nil {
		respondError(c, err, "failed to load policies")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policies.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, err, "failed to add policy")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.policies.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, err, "failed to remove policy")
		return
	}
	c.Status(http.StatusNoContent)
}
