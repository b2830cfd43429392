package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"protodesk/db"
	"protodesk/globals"
	"protodesk/middleware"
	"protodesk/models"
	"protodesk/rdx"
	"protodesk/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

const departmentName = "Protocol Department"

// Sessions are deliberately long-lived; protocol staff stay signed in on
// shared desk machines for the whole posting.
const tokenTTL = 365 * 24 * time.Hour

type Handler struct {
	Store *db.Store
	Cache *redis.Client
}

func NewHandler(store *db.Store, cache *redis.Client) *Handler {
	return &Handler{Store: store, Cache: cache}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.SendError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := h.Store.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		utils.SendError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !VerifyPassword(user.Password, input.Password) {
		utils.SendError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	userID := user.ID.Hex()

	// Super users skip the department check entirely.
	var dept models.Department
	err := h.Store.Departments.FindOne(ctx, bson.M{"name": departmentName}).Decode(&dept)
	if err != nil && !user.IsSuperUser {
		utils.SendError(w, http.StatusInternalServerError, "Protocol Department not configured")
		return
	}

	isMember := user.IsSuperUser ||
		slices.Contains(dept.AdminIDs, userID) ||
		slices.Contains(dept.MemberIDs, userID)
	if !isMember {
		utils.SendError(w, http.StatusForbidden, "Access denied. You are not a member of the Protocol Department.")
		return
	}

	isAdmin := user.IsSuperUser || slices.Contains(dept.AdminIDs, userID)

	claims := &middleware.Claims{
		UserID:      userID,
		Email:       user.Email,
		Name:        user.Name,
		IsAdmin:     isAdmin,
		IsSuperUser: user.IsSuperUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.SendError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := rdx.SaveToken(ctx, h.Cache, userID, tokenString); err != nil {
		log.Printf("auth: token cache failed for %s: %v", userID, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth-token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(tokenTTL / time.Second),
		HttpOnly: true,
		Secure:   os.Getenv("ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})

	utils.SendSuccess(w, http.StatusOK, utils.M{
		"token": tokenString,
		"user": utils.M{
			"id":          userID,
			"email":       user.Email,
			"name":        user.Name,
			"isAdmin":     isAdmin,
			"isSuperUser": user.IsSuperUser,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := rdx.RevokeToken(r.Context(), h.Cache, claims.UserID); err != nil {
		log.Printf("auth: token revoke failed for %s: %v", claims.UserID, err)
		utils.SendError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "auth-token",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	utils.SendSuccessMessage(w, http.StatusOK, "Logged out")
}
