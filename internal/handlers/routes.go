package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api. The route gate is expected to
// run before these handlers.
func RegisterRoutes(router gin.IRouter, auth *AuthHandler, tasks *TaskHandler, users *UserHandler, loginLimit gin.HandlerFunc) {
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	if loginLimit != nil {
		authGroup.POST("/login", loginLimit, auth.Login)
	} else {
		authGroup.POST("/login", auth.Login)
	}
	authGroup.POST("/logout", auth.Logout)
	authGroup.GET("/session", auth.Session)

	taskGroup := api.Group("/tasks")
	taskGroup.GET("", tasks.ListTasks)
	taskGroup.POST("", tasks.CreateTask)
	taskGroup.GET("/:id", tasks.GetTask)
	taskGroup.PUT("/:id", tasks.UpdateTask)
	taskGroup.DELETE("/:id", tasks.DeleteTask)

	userGroup := api.Group("/users")
	userGroup.GET("", users.ListUsers)
	userGroup.POST("", users.CreateUser)
	userGroup.GET("/:id", users.GetUser)
	userGroup.PUT("/:id", users.UpdateUser)
	userGroup.DELETE("/:id", users.DeleteUser)
}
