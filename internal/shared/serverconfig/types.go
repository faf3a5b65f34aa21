package serverconfig

import "time"

type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Game     GameConfig     `yaml:"game" mapstructure:"game"`
	Replay   ReplayConfig   `yaml:"replay" mapstructure:"replay"`
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	Record   RecordConfig   `yaml:"record" mapstructure:"record"`
	MongoDB  MongoDBConfig  `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL    MySQLConfig    `yaml:"mysql" mapstructure:"mysql"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// JWTSecret 为空时 ws 接入不校验房间 token（本地开发）。
	JWTSecret    string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	ReadLimit    int64  `yaml:"read_limit" mapstructure:"read_limit"` // bytes
	MsgPerSecond int    `yaml:"msg_per_second" mapstructure:"msg_per_second"`
	MsgBurst     int    `yaml:"msg_burst" mapstructure:"msg_burst"`
	// AskTimeout 是 HTTP 查询对局 actor 的超时。
	AskTimeout time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
}

type GameConfig struct {
	PlanetCount  int   `yaml:"planet_count" mapstructure:"planet_count"`
	Width        int   `yaml:"width" mapstructure:"width"`
	Height       int   `yaml:"height" mapstructure:"height"`
	InitialShips int   `yaml:"initial_ships" mapstructure:"initial_ships"`
	MaxTurns     int   `yaml:"max_turns" mapstructure:"max_turns"`
	Seed         int64 `yaml:"seed" mapstructure:"seed"` // 0 表示随机
	// RoundTimeout 为 0 时不设回合超时。
	RoundTimeout time.Duration `yaml:"round_timeout" mapstructure:"round_timeout"`
}

type ReplayConfig struct {
	// Dir 为空时不写回放日志。
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type SnapshotConfig struct {
	// Dir 为空时断线的对局直接丢弃，不续局。
	Dir string `yaml:"dir" mapstructure:"dir"`
}

type RecordConfig struct {
	Store string `yaml:"store" mapstructure:"store"` // memory/mongo/mysql
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
