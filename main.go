package main

import (
	"log"
	"strings"
	"time"

	"ingest/access"
	"ingest/auth"
	"ingest/config"
	"ingest/db"
	"ingest/handlers"
	"ingest/models"
	"ingest/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	db.Init()
	models.Init()
	access.Default = access.NewEvaluator(models.PolicyQuery{}, models.MemberQuery{})

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/upload"})))
	}

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// User handlers
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/create", handlers.UserCreate)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.GET("/user/list", handlers.UserList)
	// Destination handlers
	authRouter.GET("/destination/list", handlers.DestinationList)
	authRouter.POST("/destination/save", handlers.DestinationSave)
	authRouter.POST("/destination/delete", handlers.DestinationDelete)
	authRouter.GET("/destination/members", handlers.MemberList(models.ResourceTypeDestination))
	authRouter.POST("/destination/member/invite", handlers.MemberInvite(models.ResourceTypeDestination))
	authRouter.POST("/destination/member/role", handlers.MemberSetRole(models.ResourceTypeDestination))
	authRouter.POST("/destination/member/status", handlers.MemberSetStatus(models.ResourceTypeDestination))
	authRouter.POST("/destination/member/remove", handlers.MemberRemove(models.ResourceTypeDestination))
	// Project handlers
	authRouter.GET("/project/list", handlers.ProjectList)
	authRouter.POST("/project/save", handlers.ProjectSave)
	authRouter.POST("/project/delete", handlers.ProjectDelete)
	authRouter.GET("/project/members", handlers.MemberList(models.ResourceTypeProject))
	authRouter.POST("/project/member/invite", handlers.MemberInvite(models.ResourceTypeProject))
	authRouter.POST("/project/member/role", handlers.MemberSetRole(models.ResourceTypeProject))
	authRouter.POST("/project/member/status", handlers.MemberSetStatus(models.ResourceTypeProject))
	authRouter.POST("/project/member/remove", handlers.MemberRemove(models.ResourceTypeProject))
	// Request handlers
	authRouter.GET("/request/list", handlers.RequestList)
	authRouter.POST("/request/save", handlers.RequestSave)
	authRouter.POST("/request/delete", handlers.RequestDelete)
	// Template handlers
	authRouter.GET("/template/list", handlers.TemplateList)
	authRouter.POST("/template/save", handlers.TemplateSave)
	authRouter.POST("/template/delete", handlers.TemplateDelete)
	// Policy handlers
	authRouter.GET("/policy/list", handlers.PolicyList)
	authRouter.POST("/policy/save", handlers.PolicySave)
	authRouter.POST("/policy/delete", handlers.PolicyDelete)
	// Group handlers
	authRouter.GET("/group/list", handlers.GroupList)
	authRouter.POST("/group/create", handlers.GroupCreate)
	authRouter.POST("/group/member/add", handlers.GroupMemberAdd)
	authRouter.POST("/group/member/remove", handlers.GroupMemberRemove)
	// Upload handlers - token-addressed, no account needed
	router.GET("/request/show/:token", handlers.RequestShow)
	router.PUT("/upload/:token", handlers.Upload)
	router.POST("/upload/:token", handlers.Upload)
	authRouter.GET("/upload/list", handlers.UploadList)
	authRouter.GET("/upload/fetch", handlers.UploadFetch)

	if config.TLS_DOMAINS != "" {
		log.Printf("Starting browser TLS listener for: %s", config.TLS_DOMAINS)
		log.Fatal(autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...))
	} else {
		log.Fatal(router.Run(config.BIND_ADDRESS))
	}
}
