package providers

import (
	"github.com/samber/do/v2"

	"github.com/takuyahirata23/quick-note/internal/logger"
	"github.com/takuyahirata23/quick-note/internal/service"
)

// ProvideServices provides the auth, folder and note services over the store.
func ProvideServices(i do.Injector) (*service.Services, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.New(storeHandle.Store, log.Logger), nil
}
