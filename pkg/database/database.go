package database

import (
	"fmt"
	"log"

	"heritage_backend/internal/config"
	"heritage_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并在题库为空时写入一批默认古建筑题目，方便本地起服务即可出卷
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.ExamRecord{},
		&model.QuizRecord{},
	)
	if err != nil {
		return err
	}

	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count == 0 {
		defaultQuestions := []model.Question{
			{
				Kind:     model.SingleChoice,
				Content:  "故宫太和殿重建于哪个朝代？",
				Options:  []byte(`["唐","宋","明","清"]`),
				Answer:   "清",
				Analysis: "现存太和殿为清康熙年间重建。",
			},
			{
				Kind:     model.SingleChoice,
				Content:  "应县木塔（佛宫寺释迦塔）建于哪个朝代？",
				Options:  []byte(`["辽","金","元","明"]`),
				Answer:   "辽",
				Analysis: "建于辽清宁二年（1056 年），是现存最古老的全木结构高层塔。",
			},
			{
				Kind:     model.SingleChoice,
				Content:  "《营造法式》的作者是谁？",
				Options:  []byte(`["李诫","梁思成","宇文恺","计成"]`),
				Answer:   "李诫",
				Analysis: "北宋李诫编修，是中国古代最完整的建筑技术书籍。",
			},
			{
				Kind:     model.MultipleChoice,
				Content:  "下列哪些属于中国古建筑的大木作构件？",
				Options:  []byte(`["斗拱","梁","椽","影壁"]`),
				Answer:   "斗拱,梁,椽",
				Analysis: "影壁属于小品建筑，不是大木作构件。",
			},
			{
				Kind:     model.MultipleChoice,
				Content:  "下列哪些建筑位于山西省？",
				Options:  []byte(`["悬空寺","佛光寺东大殿","晋祠圣母殿","岳阳楼"]`),
				Answer:   "悬空寺,佛光寺东大殿,晋祠圣母殿",
				Analysis: "岳阳楼在湖南岳阳。",
			},
		}
		for i := range defaultQuestions {
			db.Create(&defaultQuestions[i])
		}
	}

	return nil
}
