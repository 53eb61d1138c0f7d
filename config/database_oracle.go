package config

import (
	. "Townhall/common"
	"Townhall/pkg/proxy"
	"context"
	"net"

	"database/sql"
	"database/sql/driver"

	go_ora "github.com/sijms/go-ora/v2"
	oracle "gitlab.com/CoiaPrant/gorm-oracle"
	"gorm.io/gorm"
)

const oracleDriverName = "oracle-proxy"

func init() {
	sql.Register(oracleDriverName, &oracleDriver{})
}

// oracleDriver routes go-ora connections through the configured proxy.
type oracleDriver struct{}

func (*oracleDriver) Open(name string) (driver.Conn, error) {
	connector, err := (&go_ora.OracleDriver{}).OpenConnector(name)
	if err != nil {
		return nil, err
	}

	connector.(*go_ora.OracleConnector).Dialer(&oracleProxy{})
	return connector.Connect(context.Background())
}

type oracleProxy struct{}

func (*oracleProxy) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return proxy.DialContext(ctx, network, address)
}

type Oracle struct {
	Host string
	Port uint16

	User     string
	Password string

	Service string

	AuthType                   string
	TLS                        bool
	WalletPath, WalletPassword string

	Pool
}

func (*Oracle) Dialect() string {
	return "oracle"
}

func (c *Oracle) Open() (gorm.Dialector, error) {
	options := make(map[string]string)

	if c.AuthType != "" {
		options["AUTH TYPE"] = c.AuthType
	}

	if c.WalletPath != "" {
		options["WALLET"] = c.WalletPath
	}

	if c.WalletPassword != "" {
		options["WALLET PASSWORD"] = c.WalletPassword
	}

	if c.TLS {
		options["SSL"] = "TRUE"

		if !TLSConfig.InsecureSkipVerify {
			options["SSL VERIFY"] = "TRUE"
		}
	}

	return oracle.New(oracle.Config{
		DriverName:        oracleDriverName,
		DSN:               oracle.BuildUrl(c.Host, int(c.Port), c.Service, c.User, c.Password, options),
		DefaultStringSize: 4000,
	}), nil
}
