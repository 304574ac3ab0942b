package main

import "github.com/storeforge/backend/internal/app"

//	@title			StoreForge Backend API
//	@version		1.0
//	@description	Бэкенд управления витринами: каталог, синхронизация с Magento, уведомления и счета.
//	@BasePath		/api/v1
func main() {
	app.Run()
}
