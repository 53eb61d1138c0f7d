package main

import (
	. "Townhall/common"
	"Townhall/database"
	"Townhall/pkg/proxy"
	"Townhall/services/conversations"
	"Townhall/services/cron"
	"Townhall/services/cron/jobs"
	"Townhall/services/forum"
	"Townhall/services/users"
	"Townhall/services/web"
	"Townhall/utils"
	"context"
	"crypto/tls"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/CoiaPrant/clog"
)

var (
	version = "dev"
)

func main() {
	var conf Config
	{
		var config_file string
		{
			flag.StringVar(&config_file, "config", "config.json", "The config file location")
			flag.BoolVar(clog.DebugFlag(), "debug", false, "Show debug logs")
			help := flag.Bool("h", false, "Show help")
			v := flag.Bool("version", false, "Show version")
			flag.Parse()

			if *help {
				flag.PrintDefaults()
				return
			}

			if *v {
				clog.Print(version)
				return
			}
		}

		file, err := os.ReadFile(config_file)
		if err != nil {
			clog.Fatal("[Config] Unable to read config file, error: ", err)
			return
		}

		err = json.Unmarshal(file, &conf)
		if err != nil {
			clog.Fatal("[Config] Unable to parse config file, error: ", err)
			return
		}
	}

	{
		TLSConfig.InsecureSkipVerify = conf.Security.InsecureSkipVerify

		gin.SetMode(gin.ReleaseMode)
		if version == "dev" || clog.IsDebug() {
			gin.SetMode(gin.DebugMode)
		}
	}

	clog.Infof("Townhall Version: %s", version)

	{
		if conf.Proxy != "" {
			u, err := url.Parse(conf.Proxy)
			if err != nil {
				clog.Fatal("[Initial] failed to parse proxy, error: ", err)
				return
			}

			err = proxy.Register(u)
			if err != nil {
				clog.Fatal("[Initial] failed to register proxy, error: ", err)
				return
			}
		}
	}

	var db database.DB
	{
		dbConf, err := conf.Database.Select()
		if err != nil {
			clog.Fatal("[Config] ", err)
			return
		}

		db, err = database.Open(dbConf, clog.IsDebug())
		if err != nil {
			clog.Fatal("[Database] failed to connect database, error: ", err)
			return
		}
		defer db.Close()
		clog.Success("[Database] connected database")
	}

	if conf.Auth.SecretKey == "" {
		conf.Auth.SecretKey = utils.GetString(48)
		clog.Info("[Auth] No secret key configured, generated a random one; tokens will not survive a restart")
	}

	services := web.Services{
		DB:            db,
		Users:         users.New(db, conf.Auth),
		Forum:         forum.New(db),
		Conversations: conversations.New(db),
	}

	{
		n, err := services.Users.PromoteAdmins(context.Background(), conf.Auth.Admins)
		if err != nil {
			clog.Fatal("[Auth] failed to promote administrators, error: ", err)
			return
		}

		if n < len(conf.Auth.Admins) {
			clog.Infof("[Auth] %d of %d configured administrators are registered", n, len(conf.Auth.Admins))
		}
	}

	scheduler := cron.New()
	{
		err := jobs.Register(scheduler, db, services.Conversations)
		if err != nil {
			clog.Fatal("[CronJob] failed to add job, error: ", err)
			return
		}
	}
	scheduler.Start()
	clog.Debugf("[CronJob] %d jobs scheduled", scheduler.Len())

	var srv http.Server
	{
		if conf.Web.Type == "unix" {
			os.Remove(conf.Web.Listen)
		}

		lis, err := net.Listen(conf.Web.Type, conf.Web.Listen)
		if err != nil {
			clog.Fatal("[Web] failed to listen, error: ", err)
			return
		}

		if conf.Web.Type == "unix" {
			os.Chmod(conf.Web.Listen, 0777)
		}

		srv = http.Server{Handler: web.Handler(services), ErrorLog: log.New(io.Discard, "", 0), ReadHeaderTimeout: 10 * time.Second}

		if conf.Web.Cert == "" || conf.Web.Key == "" {
			go srv.Serve(lis)
		} else {
			{
				_, err = tls.LoadX509KeyPair(conf.Web.Cert, conf.Web.Key)
				if err != nil {
					clog.Fatal("[Web] failed to load tls certificate, error: ", err)
					return
				}
			}
			go srv.ServeTLS(lis, conf.Web.Cert, conf.Web.Key)
		}
		clog.Infof("[Web] listening on %s", conf.Web.Listen)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTRAP)

	<-sigs
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
	scheduler.Stop()
	clog.Print("Exiting")
}
