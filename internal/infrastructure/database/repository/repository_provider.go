package repository

import (
	"github.com/google/wire"

	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/adminrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/chatrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/contentrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/inquiryrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/transaction"
)

var RepositoryProvider = wire.NewSet(
	transaction.NewDatabase,
	contentrepo.NewContentGormRepository,
	inquiryrepo.NewInquiryGormRepository,
	chatrepo.NewChatGormRepository,
	adminrepo.NewAdminGormRepository,
)
