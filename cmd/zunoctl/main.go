package main

import (
	"Zuno/internal/api/config"
	"Zuno/internal/pkg/database"
	"Zuno/internal/pkg/logger"
	"Zuno/internal/pkg/redis"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var output = "text"

var rootCmd = &cobra.Command{
	Use:   "zunoctl",
	Short: "Zuno 运维命令行",
	Long: `zunoctl 直接连接 Zuno 的数据库与 Redis，
用于建表、计数对账与运行时配置管理。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(); err != nil {
			return err
		}
		logger.InitLogger(config.Cfg.Logstash, config.Cfg.Server.Mode)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(flagCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	dbCfg := config.Cfg.DB
	return database.NewGormDB(&dbCfg)
}

// openRedis 未配置地址时返回 false
func openRedis() (bool, error) {
	if config.Cfg.Redis.Addr == "" {
		return false, nil
	}
	if err := redis.InitRedis(config.Cfg.Redis); err != nil {
		return false, err
	}
	return true, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
