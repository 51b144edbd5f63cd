// 本地联调用的令牌生成脚本
//
// 服务本身不签发令牌，身份由上游认证系统断言。此脚本只在本地开发时
// 用当前配置的密钥铸一个令牌，方便直接调接口。
//
// 用法: go run scripts/gen_token.go <user_id> <admin|teacher|student>

package main

import (
	"fmt"
	"log"
	"os"

	"gradebook_backend/internal/config"
	"gradebook_backend/internal/model"
	"gradebook_backend/internal/util"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("用法: go run scripts/gen_token.go <user_id> <admin|teacher|student>")
	}
	userID := os.Args[1]
	role := model.UserRole(os.Args[2])
	if role != model.Admin && role != model.Teacher && role != model.Student {
		log.Fatalf("未知角色: %s", os.Args[2])
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	token, err := util.GenerateJWT(userID, role, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		log.Fatalf("生成令牌失败: %v", err)
	}

	fmt.Println(token)
}
