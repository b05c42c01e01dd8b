package service

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"unicode/utf8"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/pkg"
	"github.com/Tengorio/12pavos/internal/repository/mysql"

	"gorm.io/gorm"
)

type WishService struct {
	repo     *mysql.WishRepository
	userRepo *mysql.UserRepository
	smtp     pkg.SMTPConfig
}

func NewWishService(db *gorm.DB, smtp pkg.SMTPConfig) *WishService {
	return &WishService{
		repo:     &mysql.WishRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
		smtp:     smtp,
	}
}

// OwnWish 主人视角：只给"已被认领"布尔，不给认领者身份（单向匿名对称处理）
type OwnWish struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
	Claimed     bool   `json:"claimed"`
}

// MarketWish 市场视角：无主人字段
type MarketWish struct {
	ID          uint64 `json:"id"`
	Description string `json:"description"`
}

// ClaimedWish 认领者视角：票号就是心愿 id，贴在礼物上用，绝不带收礼人身份
type ClaimedWish struct {
	Ticket      uint64 `json:"ticket"`
	Description string `json:"description"`
}

func (s *WishService) AddWish(ctx context.Context, userID uint64, description string) (uint64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user id")
	}
	if description == "" {
		return 0, errors.New("description required")
	}
	if utf8.RuneCountInString(description) > 255 {
		return 0, errors.New("description too long")
	}

	wish := &model.Wish{
		UserID:      userID,
		Description: description,
	}
	if err := s.repo.CreateWithCap(ctx, wish); err != nil {
		return 0, err
	}
	return wish.ID, nil
}

func (s *WishService) ListOwn(ctx context.Context, userID uint64) ([]OwnWish, error) {
	rows, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]OwnWish, 0, len(rows))
	for _, w := range rows {
		out = append(out, OwnWish{
			ID:          w.ID,
			Description: w.Description,
			Claimed:     w.ClaimedByID != nil,
		})
	}
	return out, nil
}

// Browse 礼物市场。每次调用都重新洗牌：顺序本身不能泄露主人分组或提交先后
func (s *WishService) Browse(ctx context.Context, callerID uint64) ([]MarketWish, error) {
	if callerID == 0 {
		return nil, errors.New("invalid user id")
	}
	rows, err := s.repo.ListAvailable(ctx, callerID)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
	out := make([]MarketWish, 0, len(rows))
	for _, w := range rows {
		out = append(out, MarketWish{ID: w.ID, Description: w.Description})
	}
	return out, nil
}

func (s *WishService) Claim(ctx context.Context, wishID, callerID uint64) error {
	if callerID == 0 || wishID == 0 {
		return errors.New("invalid id")
	}
	if err := s.repo.Claim(ctx, wishID, callerID); err != nil {
		return err
	}
	// 通知尽力而为，失败不影响认领结果
	s.notifyOwner(ctx, wishID)
	return nil
}

func (s *WishService) Release(ctx context.Context, wishID, callerID uint64) error {
	if callerID == 0 || wishID == 0 {
		return errors.New("invalid id")
	}
	return s.repo.Release(ctx, wishID, callerID)
}

func (s *WishService) MyClaims(ctx context.Context, callerID uint64) ([]ClaimedWish, error) {
	if callerID == 0 {
		return nil, errors.New("invalid user id")
	}
	rows, err := s.repo.ListClaimedBy(ctx, callerID)
	if err != nil {
		return nil, err
	}
	out := make([]ClaimedWish, 0, len(rows))
	for _, w := range rows {
		out = append(out, ClaimedWish{Ticket: w.ID, Description: w.Description})
	}
	return out, nil
}

// notifyOwner 只告诉主人"有一个心愿被认领了"，不说是哪个、更不说是谁
func (s *WishService) notifyOwner(ctx context.Context, wishID uint64) {
	if !s.smtp.Enabled() {
		return
	}
	wish, err := s.repo.FindByID(ctx, wishID)
	if err != nil {
		return
	}
	owner, err := s.userRepo.FindByID(wish.UserID)
	if err != nil || owner.Email == "" {
		return
	}
	name := owner.Name
	if name == "" {
		name = owner.Username
	}
	html := pkg.ClaimNoticeHTML(name)
	if err := pkg.SendEmail(s.smtp, owner.Email, "Un deseo tuyo fue elegido 🎁", html); err != nil {
		log.Printf("claim notice mail err: %v", err)
	}
}
