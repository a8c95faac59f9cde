package service

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"househelper/config"
)

// WechatSession jscode2session 返回结果
type WechatSession struct {
	OpenID     string `json:"openid"`
	SessionKey string `json:"session_key"`
	UnionID    string `json:"unionid"`
	ErrCode    int    `json:"errcode"`
	ErrMsg     string `json:"errmsg"`
}

// PhoneInfo 解密后的手机号信息
type PhoneInfo struct {
	PhoneNumber     string `json:"phoneNumber"`
	PurePhoneNumber string `json:"purePhoneNumber"`
	CountryCode     string `json:"countryCode"`
	Watermark       struct {
		AppID     string `json:"appid"`
		Timestamp int64  `json:"timestamp"`
	} `json:"watermark"`
}

// WechatClient 微信小程序登录接口
type WechatClient struct {
	appID     string
	appSecret string
	baseURL   string
	client    *http.Client
}

// NewWechatClient 创建客户端，base_url 为空时使用微信官方地址
func NewWechatClient(cfg config.WechatConfig) *WechatClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.weixin.qq.com"
	}
	return &WechatClient{
		appID:     cfg.AppID,
		appSecret: cfg.AppSecret,
		baseURL:   base,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured 是否配置了 appid 与 secret
func (w *WechatClient) Configured() bool {
	return w.appID != "" && w.appSecret != ""
}

// AppID 小程序 appid
func (w *WechatClient) AppID() string {
	return w.appID
}

// Code2Session 使用 wx.login 的 code 换取 openid 与 session_key
func (w *WechatClient) Code2Session(ctx context.Context, code string) (*WechatSession, error) {
	q := url.Values{}
	q.Set("appid", w.appID)
	q.Set("secret", w.appSecret)
	q.Set("js_code", code)
	q.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/sns/jscode2session?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求微信服务器失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("微信服务器返回状态码 %d", resp.StatusCode)
	}

	var session WechatSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if session.ErrCode != 0 {
		return nil, fmt.Errorf("微信返回错误 %d: %s", session.ErrCode, session.ErrMsg)
	}
	if session.OpenID == "" {
		return nil, fmt.Errorf("微信返回的数据中无 openid")
	}
	return &session, nil
}

// DecryptPhoneNumber 解密 getPhoneNumber 返回的数据（AES-128-CBC，PKCS#7 填充）
// 校验水印中的 appid 与当前小程序一致
func DecryptPhoneNumber(appID, sessionKey, encryptedData, iv string) (*PhoneInfo, error) {
	plain, err := decryptWechatData(sessionKey, encryptedData, iv)
	if err != nil {
		return nil, err
	}
	var info PhoneInfo
	if err := json.Unmarshal(plain, &info); err != nil {
		return nil, fmt.Errorf("解析手机号数据失败: %w", err)
	}
	if info.Watermark.AppID != appID {
		return nil, fmt.Errorf("水印 appid 不匹配")
	}
	return &info, nil
}

func decryptWechatData(sessionKey, encryptedData, iv string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("session_key 格式错误: %w", err)
	}
	ivBytes, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("iv 格式错误: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("encrypted_data 格式错误: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("session_key 长度错误: %w", err)
	}
	if len(ivBytes) != block.BlockSize() {
		return nil, fmt.Errorf("iv 长度错误")
	}
	if len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("密文长度错误")
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, ivBytes).CryptBlocks(plain, data)
	return pkcs7Unpad(plain, block.BlockSize())
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, fmt.Errorf("填充错误")
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, fmt.Errorf("填充错误")
	}
	return b[:len(b)-n], nil
}
