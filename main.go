package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/modules"
	photorepo "github.com/toughbox/pocketpic/internal/modules/photo/repo"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/router"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	flag.Parse()

	// 本地开发时从 .env 读取环境变量，文件不存在则忽略
	if err := godotenv.Load(); err == nil {
		log.Println("✅ 已加载 .env 文件")
	}

	config.InitConfig(*configDir)
	cfg := config.Get()

	appService := platformservice.NewAppService(cfg)

	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	client := pocketbase.NewWithTimeout(cfg.Backend.URL, timeout)
	photoStore := photorepo.NewPhotoRepository(client, cfg.Backend.PhotosCollection)

	appModules := modules.New(appService, client, photoStore, cfg)

	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()
	router.NewRouter(appModules, appService).Init(r)

	distFS := GetFrontendAssets()
	indexData := setupFrontend(r, distFS, appService)
	r.NoRoute(getNoRouteHandler(distFS, indexData))

	printWelcomeMessage(distFS)

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 服务启动成功，运行在 :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ 服务强制关闭:", err)
	}

	platformservice.CloseRedisClient()
	log.Println("✅ 服务已退出")
}

// getNoRouteHandler 返回兜底处理：API 未命中返回 404，其余路径服务静态文件或回退 index.html
func getNoRouteHandler(distFS fs.FS, indexData []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"error": "API not found"})
			return
		}

		if indexData == nil {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}

		// 尝试直接服务根目录下的静态文件 (如 favicon.ico, manifest.json)
		path := strings.TrimPrefix(c.Request.URL.Path, "/")

		// 访问根路径 / 时直接返回 index.html
		if path == "" {
			c.Data(200, "text/html; charset=utf-8", indexData)
			return
		}

		f, err := distFS.Open(path)
		if err == nil {
			defer f.Close()
			stat, _ := f.Stat()
			if !stat.IsDir() {
				c.FileFromFS(path, http.FS(distFS))
				return
			}
		}

		// SPA 回退：服务 index.html 内容
		c.Data(200, "text/html; charset=utf-8", indexData)
	}
}

func printWelcomeMessage(distFS fs.FS) {
	frontendVersion := "未知版本"
	if distFS != nil {
		if vData, err := fs.ReadFile(distFS, "version"); err == nil {
			frontendVersion = strings.TrimSpace(string(vData))
		}
	}

	cfg := config.Get()

	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  后端版本 : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   💻  前端版本 : %s\n", frontendVersion)
	fmt.Printf(" │   🗄️  远端后端 : %s\n", cfg.Backend.URL)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}
