//go:build ignore

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"
)

const healthURL = "http://127.0.0.1:8080/health"

func main() {
	fmt.Println("Запуск users API...")

	clientName := "usersctl"
	if runtime.GOOS == "windows" {
		clientName = "usersctl.exe"
	}
	// сервер на фоне
	server := exec.Command("go", "run", "./cmd/server/main.go")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	if !waitHealthy(30 * time.Second) {
		fmt.Println("Сервер не ответил на /health, проверь DB_DSN и логи")
	}

	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/usersctl/main.go")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
		}
		if runtime.GOOS != "windows" {
			os.Chmod(clientName, 0755)
		}
	}

	fmt.Println("Сервер запущен")
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\usersctl.exe health")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./usersctl health")
	}

	server.Wait()
}

// waitHealthy опрашивает /health, пока сервер не ответит 200 или не выйдет время.
func waitHealthy(timeout time.Duration) bool {
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		res, err := client.Get(healthURL)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}
